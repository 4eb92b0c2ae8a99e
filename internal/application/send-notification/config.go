package sendnotification

import (
	"now-hiring/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	Provider     string
	FromEmail    string
	Recipients   []string

	SMSEnabled   bool
	PhoneNumbers []string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	UseTLS       bool

	AWSRegion string
}

func LoadConfig(cfg *config.Config) *Config {
	n := cfg.Notifications
	return &Config{
		EmailEnabled: n.Email.Enabled,
		Provider:     n.Email.Provider,
		FromEmail:    n.Email.FromEmail,
		Recipients:   n.Email.Recipients,
		SMSEnabled:   n.SMS.Enabled,
		PhoneNumbers: n.SMS.PhoneNumbers,
		SMTPHost:     n.SMTP.Host,
		SMTPPort:     n.SMTP.Port,
		SMTPUsername: n.SMTP.Username,
		SMTPPassword: n.SMTP.Password,
		UseTLS:       n.SMTP.UseTLS,
		AWSRegion:    n.AWS.Region,
	}
}
