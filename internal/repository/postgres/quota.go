package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/outreach/internal/service/quota"
)

// QuotaRepo implements quota.Store against PostgreSQL.
type QuotaRepo struct{ db *sql.DB }

// NewQuotaRepo creates a Postgres-backed quota store.
func NewQuotaRepo(db *sql.DB) *QuotaRepo { return &QuotaRepo{db: db} }

func (r *QuotaRepo) GetCount(ctx context.Context, date string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT emails_sent FROM daily_quotas WHERE date = $1
	`, date).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get daily count: %w", err)
	}
	return count, nil
}

// Increment performs the reservation as one atomic upsert. The ceiling
// comparison lives inside the statement's WHERE clause, so two
// concurrent reservations serialize on the row and the loser sees zero
// rows returned. The row for a new day is created by the same
// statement; no reset job exists.
func (r *QuotaRepo) Increment(ctx context.Context, date string, count, limit int) (int, error) {
	// The INSERT arm has no WHERE clause, so guard the fresh-day case
	// here: a single oversized request must not seed a row past the cap.
	if count > limit {
		return 0, quota.ErrCeiling
	}

	var newTotal int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO daily_quotas (date, emails_sent, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (date) DO UPDATE
		SET emails_sent = daily_quotas.emails_sent + EXCLUDED.emails_sent,
		    updated_at = NOW()
		WHERE daily_quotas.emails_sent + EXCLUDED.emails_sent <= $3
		RETURNING emails_sent
	`, date, count, limit).Scan(&newTotal)
	if err == sql.ErrNoRows {
		return 0, quota.ErrCeiling
	}
	if err != nil {
		return 0, fmt.Errorf("increment daily quota: %w", err)
	}
	return newTotal, nil
}
