package quota

import (
	"errors"
	"fmt"
)

// Sentinel errors for the quota service layer.
var (
	// ErrQuotaExceeded marks any reservation denied by the daily cap.
	// Use errors.Is against this; the concrete error is *ReservationError.
	ErrQuotaExceeded = errors.New("daily send quota exceeded")

	// ErrInvalidCount is returned for non-positive reservation counts.
	ErrInvalidCount = errors.New("reservation count must be positive")
)

// ReservationError reports a denied reservation together with the
// state of the counter at the time of the atomic check.
type ReservationError struct {
	Requested int
	Used      int
	Limit     int
}

func (e *ReservationError) Error() string {
	return fmt.Sprintf("cannot reserve %d emails: %d of %d daily quota already used (wait for UTC rollover or send fewer)",
		e.Requested, e.Used, e.Limit)
}

// Is makes errors.Is(err, ErrQuotaExceeded) match.
func (e *ReservationError) Is(target error) bool { return target == ErrQuotaExceeded }
