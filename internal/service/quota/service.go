package quota

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ignite/outreach/internal/domain"
)

// DenyReason is one independently reportable reason a send request was
// refused by ValidateSendRequest.
type DenyReason struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the combined outcome of the local quota check and
// the provider capacity probe for a prospective send of N emails.
type ValidationResult struct {
	Allowed            bool                    `json:"allowed"`
	Reasons            []DenyReason            `json:"reasons"`
	Warnings           []string                `json:"warnings"`
	Local              domain.QuotaState       `json:"local"`
	Provider           domain.ProviderCapacity `json:"provider"`
	EffectiveRemaining int                     `json:"effective_remaining"`
}

// Service composes the durable daily counter and the provider capacity
// probe into admit/deny decisions and the atomic reservation step.
type Service struct {
	store         Store
	prober        CapacityProber
	limit         int
	warnThreshold int
	now           func() time.Time
}

// NewService creates a quota service with the given daily limit.
// prober may be nil, in which case only the local cap is consulted.
func NewService(store Store, prober CapacityProber, limit, warnThreshold int) *Service {
	return &Service{
		store:         store,
		prober:        prober,
		limit:         limit,
		warnThreshold: warnThreshold,
		now:           time.Now,
	}
}

// Limit returns the configured local daily cap.
func (s *Service) Limit() int { return s.limit }

func (s *Service) today() string {
	return s.now().UTC().Format(domain.QuotaDateFormat)
}

// GetDailyCount reads today's counter. A day with no row reads as zero.
func (s *Service) GetDailyCount(ctx context.Context) (int, error) {
	used, err := s.store.GetCount(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("read daily count: %w", err)
	}
	return used, nil
}

// State returns today's local quota state.
func (s *Service) State(ctx context.Context) (domain.QuotaState, error) {
	used, err := s.GetDailyCount(ctx)
	if err != nil {
		return domain.QuotaState{}, err
	}
	return domain.QuotaState{Used: used, Limit: s.limit, Remaining: s.limit - used}, nil
}

// CanSend reports whether requested more emails fit under today's local
// cap. Pure read; no quota is consumed. The answer is advisory only,
// since Reserve re-checks inside the atomic write.
func (s *Service) CanSend(ctx context.Context, requested int) (bool, domain.QuotaState, error) {
	st, err := s.State(ctx)
	if err != nil {
		return false, domain.QuotaState{}, err
	}
	return st.Remaining >= requested, st, nil
}

// Reserve atomically increments today's counter by count and returns
// the post-increment state. The ceiling is re-checked inside the
// store's atomic write, closing the race between a prior CanSend and
// the increment. On denial the returned error is a *ReservationError
// (matches ErrQuotaExceeded) carrying the counts observed at the write.
func (s *Service) Reserve(ctx context.Context, count int) (domain.QuotaState, error) {
	if count <= 0 {
		return domain.QuotaState{}, ErrInvalidCount
	}

	newTotal, err := s.store.Increment(ctx, s.today(), count, s.limit)
	if errors.Is(err, ErrCeiling) {
		used, rerr := s.store.GetCount(ctx, s.today())
		if rerr != nil {
			// Denied and we cannot even read the counter; report the
			// denial with what we know.
			used = s.limit
		}
		return domain.QuotaState{}, &ReservationError{Requested: count, Used: used, Limit: s.limit}
	}
	if err != nil {
		return domain.QuotaState{}, fmt.Errorf("reserve quota: %w", err)
	}

	log.Printf("[quota.Service] reserved %d, day total now %d/%d", count, newTotal, s.limit)
	return domain.QuotaState{Used: newTotal, Limit: s.limit, Remaining: s.limit - newTotal}, nil
}

// ValidateSendRequest combines the local CanSend check with the
// provider capacity probe. The local store failing blocks the request
// (fail closed); the probe failing only adds a warning (fail open for
// that layer), since the local cap is the binding safety mechanism.
func (s *Service) ValidateSendRequest(ctx context.Context, requested int) (*ValidationResult, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	res := &ValidationResult{
		Allowed:            true,
		Reasons:            []DenyReason{},
		Warnings:           []string{},
		Local:              st,
		EffectiveRemaining: st.Remaining,
	}

	if st.Remaining < requested {
		res.Allowed = false
		res.Reasons = append(res.Reasons, DenyReason{
			Code: "local_quota_exceeded",
			Message: fmt.Sprintf("daily quota allows %d more emails, %d requested; quota resets at UTC midnight",
				st.Remaining, requested),
		})
	}

	if s.prober != nil {
		pc, perr := s.prober.Capacity(ctx)
		switch {
		case perr != nil:
			log.Printf("[quota.Service] provider capacity probe failed: %v", perr)
			res.Warnings = append(res.Warnings, "provider capacity could not be verified; proceeding on local quota only")
		case !pc.Known:
			res.Provider = pc
			res.Warnings = append(res.Warnings, "provider did not report a sending limit; proceeding on local quota only")
		default:
			res.Provider = pc
			if pc.Remaining < res.EffectiveRemaining {
				res.EffectiveRemaining = pc.Remaining
			}
			if pc.Remaining < requested {
				res.Allowed = false
				res.Reasons = append(res.Reasons, DenyReason{
					Code: "provider_capacity_exceeded",
					Message: fmt.Sprintf("provider reports only %d sends remaining in its 24h window, %d requested",
						pc.Remaining, requested),
				})
			}
			if pc.Sandboxed {
				res.Warnings = append(res.Warnings, "provider account is in sandbox mode; only verified recipient addresses will be accepted")
			}
		}
	}

	if res.Allowed && st.Remaining-requested < s.warnThreshold {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("remaining quota low: %d emails left today after this send", st.Remaining-requested))
	}

	return res, nil
}
