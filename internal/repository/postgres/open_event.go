package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach/internal/domain"
)

// OpenEventRepo persists tracking pixel hits and serves the per-campaign
// open statistics.
type OpenEventRepo struct{ db *sql.DB }

// NewOpenEventRepo creates a Postgres-backed open event repository.
func NewOpenEventRepo(db *sql.DB) *OpenEventRepo { return &OpenEventRepo{db: db} }

func (r *OpenEventRepo) CreateOpenEvent(ctx context.Context, evt *domain.EmailOpenEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_open_events (id, sent_email_id, tracking_id, opened_at, ip_address, user_agent, device_type, email_client)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, evt.ID, evt.SentEmailID, evt.TrackingID, evt.OpenedAt, evt.IPAddress, evt.UserAgent, evt.DeviceType, evt.EmailClient)
	if err != nil {
		return fmt.Errorf("create open event: %w", err)
	}
	return nil
}

// Stats aggregates opens for one campaign. Genuine opens exclude hits
// that land within the prescan window after the send, since security
// scanners fetch pixels almost immediately while humans rarely do.
func (r *OpenEventRepo) Stats(ctx context.Context, campaignID string, prescanMinutes int) (domain.OpenStats, error) {
	var stats domain.OpenStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(e.id),
		       COUNT(DISTINCT e.tracking_id),
		       COUNT(e.id) FILTER (WHERE e.opened_at >= s.sent_at + make_interval(mins => $2))
		FROM email_open_events e
		JOIN sent_emails s ON s.id = e.sent_email_id
		WHERE s.campaign_id = $1
	`, campaignID, prescanMinutes).Scan(&stats.TotalOpens, &stats.UniqueOpens, &stats.GenuineOpens)
	if err != nil {
		return domain.OpenStats{}, fmt.Errorf("campaign open stats: %w", err)
	}
	return stats, nil
}
