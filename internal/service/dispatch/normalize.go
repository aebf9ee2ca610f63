package dispatch

import (
	"strings"

	"github.com/ignite/outreach/internal/domain"
)

// normalizeRule maps provider error text onto a stable user-facing
// category. Rules are evaluated in order; first match wins.
type normalizeRule struct {
	category   domain.ErrorCategory
	message    string
	substrings []string
}

// normalizeRules is deliberately table-driven so new provider failure
// modes get a stable category by adding a row, not another call site.
var normalizeRules = []normalizeRule{
	{
		category:   domain.ErrorCategorySandbox,
		message:    "recipient address is not verified under sandbox restrictions",
		substrings: []string{"email address is not verified", "address not verified", "sandbox"},
	},
	{
		category:   domain.ErrorCategoryThrottled,
		message:    "provider throttling in effect, retry later",
		substrings: []string{"throttl", "too many requests", "rate exceeded", "maximum sending rate"},
	},
	{
		category:   domain.ErrorCategoryTimeout,
		message:    "provider did not respond in time",
		substrings: []string{"timeout", "deadline exceeded", "context canceled"},
	},
	{
		category:   domain.ErrorCategoryPaused,
		message:    "account sending is paused by the provider",
		substrings: []string{"sending paused", "account sending paused"},
	},
	{
		category:   domain.ErrorCategoryRejected,
		message:    "message rejected by the provider",
		substrings: []string{"messagerejected", "message rejected"},
	},
}

// NormalizeSendError classifies a provider send failure into a stable
// category and a user-facing message. Unmatched errors pass the
// provider's own text through under the generic category.
func NormalizeSendError(err error) (domain.ErrorCategory, string) {
	if err == nil {
		return "", ""
	}
	text := strings.ToLower(err.Error())
	for _, r := range normalizeRules {
		for _, sub := range r.substrings {
			if strings.Contains(text, sub) {
				return r.category, r.message
			}
		}
	}
	return domain.ErrorCategoryUnexpected, err.Error()
}
