package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach/internal/domain"
)

// CampaignRepo persists campaign records and serves the listing query.
// Campaigns are append-only: created once per send request, never
// updated.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func (r *CampaignRepo) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, subject, body, created_at)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Subject, c.Body, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepo) List(ctx context.Context, limit, offset int) ([]domain.CampaignSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.subject, c.body, c.created_at,
		       COUNT(s.id),
		       COUNT(s.id) FILTER (WHERE s.status = 'sent'),
		       COUNT(s.id) FILTER (WHERE s.status = 'failed')
		FROM campaigns c
		LEFT JOIN sent_emails s ON s.campaign_id = c.id
		GROUP BY c.id, c.subject, c.body, c.created_at
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignSummary
	for rows.Next() {
		var c domain.CampaignSummary
		if err := rows.Scan(
			&c.ID, &c.Subject, &c.Body, &c.CreatedAt,
			&c.TotalRecipients, &c.SentCount, &c.FailedCount,
		); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
