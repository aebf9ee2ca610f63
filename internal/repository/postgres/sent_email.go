package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/tracking"
)

// SentEmailRepo persists the per-recipient send outcomes. Rows are
// written exactly once, synchronously, from inside the dispatch loop,
// and never updated afterwards.
type SentEmailRepo struct{ db *sql.DB }

// NewSentEmailRepo creates a Postgres-backed sent-email repository.
func NewSentEmailRepo(db *sql.DB) *SentEmailRepo { return &SentEmailRepo{db: db} }

func (r *SentEmailRepo) CreateSentEmail(ctx context.Context, rec *domain.SentEmailRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sent_emails (id, campaign_id, contact_id, tracking_id, subject, status, error_message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.CampaignID, rec.ContactID, rec.TrackingID, rec.Subject, rec.Status, rec.ErrorMessage, rec.SentAt)
	if err != nil {
		return fmt.Errorf("create sent email: %w", err)
	}
	return nil
}

func (r *SentEmailRepo) GetByTrackingID(ctx context.Context, trackingID string) (*domain.SentEmailRecord, error) {
	rec := &domain.SentEmailRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, campaign_id, contact_id, tracking_id, subject, status, COALESCE(error_message, ''), sent_at
		FROM sent_emails
		WHERE tracking_id = $1
	`, trackingID).Scan(
		&rec.ID, &rec.CampaignID, &rec.ContactID, &rec.TrackingID,
		&rec.Subject, &rec.Status, &rec.ErrorMessage, &rec.SentAt,
	)
	if err == sql.ErrNoRows {
		return nil, tracking.ErrUnknownToken
	}
	if err != nil {
		return nil, fmt.Errorf("get sent email by token: %w", err)
	}
	return rec, nil
}
