package domain

import "time"

// DeviceType is a coarse classification of the opening device.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

// EmailOpenEvent records one pixel hit for a sent email. Multiple
// events per SentEmailRecord are permitted; duplicate suppression is a
// best-effort time-window heuristic applied before the write.
type EmailOpenEvent struct {
	ID          string     `json:"id" db:"id"`
	SentEmailID string     `json:"sent_email_id" db:"sent_email_id"`
	TrackingID  string     `json:"tracking_id" db:"tracking_id"`
	OpenedAt    time.Time  `json:"opened_at" db:"opened_at"`
	IPAddress   string     `json:"ip_address" db:"ip_address"`
	UserAgent   string     `json:"user_agent" db:"user_agent"`
	DeviceType  DeviceType `json:"device_type" db:"device_type"`
	EmailClient string     `json:"email_client" db:"email_client"`
}

// OpenStats summarizes open activity for a campaign. GenuineOpens
// excludes events within the configured pre-scan window of send time,
// which are conventionally attributed to automated scanners rather
// than a human open.
type OpenStats struct {
	TotalOpens   int `json:"total_opens"`
	UniqueOpens  int `json:"unique_opens"`
	GenuineOpens int `json:"genuine_opens"`
}
