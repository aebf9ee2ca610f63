package domain

// QuotaDateFormat is the key format for daily quota rows (UTC calendar day).
const QuotaDateFormat = "2006-01-02"

// DailyQuota is the durable counter of emails reserved for one UTC
// calendar day. One row per date; the counter only ever increases.
// Rows are created lazily on the first reservation of a new day and
// retained forever as history.
type DailyQuota struct {
	Date       string `json:"date" db:"date"` // YYYY-MM-DD, UTC
	EmailsSent int    `json:"emails_sent" db:"emails_sent"`
}

// QuotaState is a point-in-time view of today's local quota.
type QuotaState struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// ProviderCapacity is the result of probing the email provider's own
// rolling-window sending limit. Known distinguishes "provider says N"
// from "we could not find out"; callers decide fail-open/fail-closed
// on that flag rather than on an error value.
type ProviderCapacity struct {
	Known        bool    `json:"known"`
	MaxWindow    float64 `json:"max_24_hour,omitempty"`
	SentInWindow float64 `json:"sent_last_24_hours,omitempty"`
	Remaining    int     `json:"remaining,omitempty"`
	Sandboxed    bool    `json:"sandboxed,omitempty"`
}
