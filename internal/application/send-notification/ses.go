package sendnotification

import (
	"context"
	"fmt"
	"time"

	"now-hiring/internal/common/logger"
	"now-hiring/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer sends through Amazon SES. Messages without attachments use the
// simple API; attachments require a raw MIME message.
type SESMailer struct {
	client SESService
	from   string
	logger logger.Logger
	now    func() time.Time
}

func NewSESMailer(client SESService, from string, log logger.Logger) *SESMailer {
	return &SESMailer{
		client: client,
		from:   from,
		logger: log.WithFields(map[string]interface{}{"component": "ses-mailer"}),
		now:    time.Now,
	}
}

func (m *SESMailer) Send(ctx context.Context, msg *models.NotificationMessage) (string, error) {
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}
	if len(msg.Attachments) == 0 {
		return m.sendSimple(ctx, msg)
	}
	return m.sendRaw(ctx, msg)
}

func (m *SESMailer) sendSimple(ctx context.Context, msg *models.NotificationMessage) (string, error) {
	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: msg.To,
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: ses send email: %v", ErrNotificationSendFailed, err)
	}
	return aws.ToString(out.MessageId), nil
}

func (m *SESMailer) sendRaw(ctx context.Context, msg *models.NotificationMessage) (string, error) {
	raw, err := BuildMIME(m.from, msg, m.now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
	}

	out, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(m.from),
		Destinations: msg.To,
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return "", fmt.Errorf("%w: ses send raw email: %v", ErrNotificationSendFailed, err)
	}

	m.logger.Debug("raw email sent", map[string]interface{}{
		"attachments": len(msg.Attachments),
		"bytes":       len(raw),
	})
	return aws.ToString(out.MessageId), nil
}
