package models

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Notification delivery statuses.
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// NotificationMessage is what the hiring team receives for one application.
type NotificationMessage struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []*Attachment
}

// NotificationResult records the outcome of one delivery channel.
type NotificationResult struct {
	Channel   string `json:"channel"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
