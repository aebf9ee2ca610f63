package domain

import "time"

// SendStatus is the terminal state of a single send attempt.
type SendStatus string

const (
	SendStatusSent   SendStatus = "sent"
	SendStatusFailed SendStatus = "failed"
)

// Campaign is created once per send request, before dispatch begins,
// and is immutable thereafter.
type Campaign struct {
	ID        string    `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SentEmailRecord is the immutable outcome of one send attempt for one
// recipient. Exactly one row is written per recipient per batch,
// regardless of whether the provider call succeeded.
type SentEmailRecord struct {
	ID           string     `json:"id" db:"id"`
	CampaignID   string     `json:"campaign_id" db:"campaign_id"`
	ContactID    string     `json:"contact_id" db:"contact_id"`
	TrackingID   string     `json:"tracking_id" db:"tracking_id"`
	Subject      string     `json:"subject" db:"subject"`
	Status       SendStatus `json:"status" db:"status"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
	SentAt       time.Time  `json:"sent_at" db:"sent_at"`
}

// CampaignSummary is a campaign plus its aggregate send counts, as
// returned by the campaign listing endpoint.
type CampaignSummary struct {
	Campaign
	TotalRecipients int `json:"total_recipients"`
	SentCount       int `json:"sent_count"`
	FailedCount     int `json:"failed_count"`
}
