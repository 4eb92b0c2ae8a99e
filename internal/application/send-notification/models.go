package sendnotification

import (
	"context"
	"errors"
	"time"

	"now-hiring/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

const (
	ProviderSES  = "ses"
	ProviderSMTP = "smtp"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
	ErrNoRecipients           = errors.New("no recipients configured")
)

// SESService is the subset of the SES client the mailer uses.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error)
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput) (*ses.SendRawEmailOutput, error)
}

// SNSService is the subset of the SNS client the alerter uses.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error)
}

// Mailer delivers one message and returns the provider's message id.
type Mailer interface {
	Send(ctx context.Context, msg *models.NotificationMessage) (string, error)
}

// Alerter sends a short text alert.
type Alerter interface {
	Alert(ctx context.Context, text string) (string, error)
}

// Output summarises one notification across channels.
type Output struct {
	NotificationID string                      `json:"notificationId"`
	Results        []models.NotificationResult `json:"results"`
	SentAt         time.Time                   `json:"sentAt"`
}

// Status is sent when any channel delivered, failed when one failed and none
// delivered, disabled otherwise.
func (o *Output) Status() string {
	status := models.StatusDisabled
	for _, r := range o.Results {
		switch r.Status {
		case models.StatusSent:
			return models.StatusSent
		case models.StatusFailed:
			status = models.StatusFailed
		}
	}
	return status
}
