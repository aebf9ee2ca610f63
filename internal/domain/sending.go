package domain

import "time"

// EmailMessage is the fully-resolved message ready for the provider.
// By the time a message reaches this struct, all template substitution
// and tracking-pixel injection is complete.
type EmailMessage struct {
	To          string `json:"to"`
	FromName    string `json:"from_name"`
	FromEmail   string `json:"from_email"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"html_content"`
	TextContent string `json:"text_content"`
}

// SendResult is returned by the provider after attempting delivery.
type SendResult struct {
	Success   bool      `json:"success"`
	MessageID string    `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
	Error     string    `json:"error,omitempty"`
}

// ErrorCategory is a stable, user-readable classification of a
// provider send failure. Categories are assigned by a table-driven
// normalizer, not by inspecting provider types at call sites.
type ErrorCategory string

const (
	ErrorCategorySandbox    ErrorCategory = "sandbox_restriction"
	ErrorCategoryThrottled  ErrorCategory = "provider_throttled"
	ErrorCategoryTimeout    ErrorCategory = "timeout"
	ErrorCategoryRejected   ErrorCategory = "message_rejected"
	ErrorCategoryPaused     ErrorCategory = "sending_paused"
	ErrorCategoryUnexpected ErrorCategory = "provider_error"
)
