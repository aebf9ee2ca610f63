package tracking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/domain"
)

// ErrUnknownToken is returned when a tracking token matches no sent
// email. Forged and truncated pixel URLs land here.
var ErrUnknownToken = errors.New("unknown tracking token")

// SendLookup resolves a tracking token to the sent email it belongs to.
type SendLookup interface {
	GetByTrackingID(ctx context.Context, trackingID string) (*domain.SentEmailRecord, error)
}

// EventWriter persists open events.
type EventWriter interface {
	CreateOpenEvent(ctx context.Context, evt *domain.EmailOpenEvent) error
}

// StatsReader serves the aggregated per-campaign open counts.
type StatsReader interface {
	Stats(ctx context.Context, campaignID string, prescanMinutes int) (domain.OpenStats, error)
}

// Deduper reports whether an open for this token and IP was already
// seen inside the suppression window, marking it seen as a side effect.
type Deduper interface {
	FirstSeen(ctx context.Context, trackingID, ip string) (bool, error)
}

// Service handles pixel hits and open statistics.
type Service struct {
	sends   SendLookup
	events  EventWriter
	stats   StatsReader
	dedup   Deduper
	prescan time.Duration
	now     func() time.Time
}

// NewService creates a tracking service. dedup may be nil, in which
// case every hit is recorded.
func NewService(sends SendLookup, events EventWriter, stats StatsReader, dedup Deduper, prescan time.Duration) *Service {
	return &Service{
		sends:   sends,
		events:  events,
		stats:   stats,
		dedup:   dedup,
		prescan: prescan,
		now:     time.Now,
	}
}

// RecordOpen processes one pixel hit. A duplicate inside the dedup
// window is dropped silently; a dedup backend failure is logged and the
// event recorded anyway, since overcounting beats losing data.
func (s *Service) RecordOpen(ctx context.Context, token, ip, userAgent string) error {
	rec, err := s.sends.GetByTrackingID(ctx, token)
	if err != nil {
		return err
	}

	if s.dedup != nil {
		first, derr := s.dedup.FirstSeen(ctx, token, ip)
		if derr != nil {
			log.Printf("[tracking.Service] dedup check failed, recording anyway: %v", derr)
		} else if !first {
			return nil
		}
	}

	device, client := classifyUserAgent(userAgent)
	evt := &domain.EmailOpenEvent{
		ID:          uuid.New().String(),
		SentEmailID: rec.ID,
		TrackingID:  token,
		OpenedAt:    s.now().UTC(),
		IPAddress:   ip,
		UserAgent:   userAgent,
		DeviceType:  device,
		EmailClient: client,
	}
	if err := s.events.CreateOpenEvent(ctx, evt); err != nil {
		return fmt.Errorf("record open event: %w", err)
	}
	return nil
}

// CampaignStats returns the open counts for one campaign. Opens that
// arrive within the pre-scan window of the send are counted in the
// totals but excluded from GenuineOpens.
func (s *Service) CampaignStats(ctx context.Context, campaignID string) (domain.OpenStats, error) {
	return s.stats.Stats(ctx, campaignID, int(s.prescan.Minutes()))
}
