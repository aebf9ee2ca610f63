package quota

import (
	"context"

	"github.com/ignite/outreach/internal/domain"
)

// Store persists the per-day counter. Implementations must make
// Increment a single atomic check-and-add: the ceiling comparison has
// to happen inside the same statement as the write, because two
// concurrent reservations that each passed a prior read must not
// jointly exceed the limit.
type Store interface {
	// GetCount returns the counter for the given UTC date key, zero if
	// no row exists yet for that day.
	GetCount(ctx context.Context, date string) (int, error)

	// Increment atomically adds count to the date's counter and returns
	// the post-increment total. If the addition would push the counter
	// past limit it performs no write and returns ErrCeiling.
	Increment(ctx context.Context, date string, count, limit int) (int, error)
}

// ErrCeiling is returned by Store.Increment when the atomic write was
// refused because it would exceed the limit. The service translates it
// into a *ReservationError with current counts.
var ErrCeiling = errCeiling{}

type errCeiling struct{}

func (errCeiling) Error() string { return "increment would exceed ceiling" }

// CapacityProber reads the provider's own sending capacity. A probe
// failure is reported through the error; a successful probe that could
// not determine capacity sets Known=false on the result.
type CapacityProber interface {
	Capacity(ctx context.Context) (domain.ProviderCapacity, error)
}
