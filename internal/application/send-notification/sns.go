package sendnotification

import (
	"context"
	"fmt"
	"strings"

	"now-hiring/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// smsLimit is the length of a single SMS segment.
const smsLimit = 160

// SNSAlerter texts a short alert to each configured phone number.
type SNSAlerter struct {
	client SNSService
	phones []string
	logger logger.Logger
}

func NewSNSAlerter(client SNSService, phones []string, log logger.Logger) *SNSAlerter {
	return &SNSAlerter{
		client: client,
		phones: phones,
		logger: log.WithFields(map[string]interface{}{"component": "sns-alerter"}),
	}
}

// Alert publishes text to every number and returns the last message id.
// Every number is attempted; the first failure is returned.
func (a *SNSAlerter) Alert(ctx context.Context, text string) (string, error) {
	if len(a.phones) == 0 {
		return "", ErrNoRecipients
	}
	text = truncate(text, smsLimit)

	var lastID string
	var firstErr error
	for _, phone := range a.phones {
		out, err := a.client.Publish(ctx, &sns.PublishInput{
			PhoneNumber: aws.String(phone),
			Message:     aws.String(text),
		})
		if err != nil {
			a.logger.Warn("sms publish failed", map[string]interface{}{
				"phone": phone,
				"error": err,
			})
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: sns publish to %s: %v", ErrNotificationSendFailed, phone, err)
			}
			continue
		}
		lastID = aws.ToString(out.MessageId)
	}
	return lastID, firstErr
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
