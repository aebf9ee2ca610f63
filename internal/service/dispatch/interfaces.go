// Package dispatch delivers one personalized message per recipient,
// sequentially, recording an immutable outcome for every recipient.
// A single failed send never aborts the rest of the batch.
package dispatch

import (
	"context"
	"time"

	"github.com/ignite/outreach/internal/domain"
)

// Sender sends a single email through the provider. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg *domain.EmailMessage) (*domain.SendResult, error)
}

// RecordWriter persists one SentEmailRecord per recipient. Writes are
// synchronous and happen inside the dispatch loop, immediately after
// each provider call.
type RecordWriter interface {
	CreateSentEmail(ctx context.Context, rec *domain.SentEmailRecord) error
}

// Pacer paces the loop between recipients. It exists so the fixed
// inter-message delay can be replaced (a token bucket, a no-op in
// tests) without touching the loop.
type Pacer interface {
	Pause(ctx context.Context)
}

// FixedDelayPacer blocks for a fixed duration between messages. This
// is the deliberate default: it keeps the send rate under the
// provider's throttle without any concurrency machinery.
type FixedDelayPacer struct {
	Delay time.Duration
}

// Pause blocks for the configured delay or until ctx is done.
func (p FixedDelayPacer) Pause(ctx context.Context) {
	if p.Delay <= 0 {
		return
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
