package send

import (
	"errors"
	"strings"

	"github.com/ignite/outreach/internal/service/quota"
)

// Sentinel errors for pre-flight validation. Each one aborts before any
// provider call or quota consumption and maps to a 400 upstream.
var (
	ErrNoRecipients    = errors.New("recipient list is empty")
	ErrEmptySubject    = errors.New("subject is required")
	ErrEmptyBody       = errors.New("body is required")
	ErrNoValidContacts = errors.New("no valid contacts resolved from the requested ids")
)

// QuotaDeniedError aborts a send whose pre-flight quota validation
// failed. It carries the structured deny reasons for the 429 response
// and matches quota.ErrQuotaExceeded via errors.Is.
type QuotaDeniedError struct {
	Result *quota.ValidationResult
}

func (e *QuotaDeniedError) Error() string {
	msgs := make([]string, 0, len(e.Result.Reasons))
	for _, r := range e.Result.Reasons {
		msgs = append(msgs, r.Message)
	}
	return "send request denied: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, quota.ErrQuotaExceeded) match.
func (e *QuotaDeniedError) Is(target error) bool { return target == quota.ErrQuotaExceeded }
