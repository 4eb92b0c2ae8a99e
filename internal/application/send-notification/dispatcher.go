package sendnotification

import (
	"context"
	"time"

	rendernotification "now-hiring/internal/application/render-notification"
	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/common/logger"
	"now-hiring/internal/common/metrics"
	"now-hiring/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Dispatcher renders an application and fans it out to the enabled channels.
type Dispatcher struct {
	config  *Config
	mailer  Mailer
	alerter Alerter
	logger  logger.Logger
}

// NewDispatcher wires the channels. A nil mailer or alerter disables that
// channel regardless of config.
func NewDispatcher(config *Config, mailer Mailer, alerter Alerter, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		config:  config,
		mailer:  mailer,
		alerter: alerter,
		logger:  log.WithFields(map[string]interface{}{"component": "notification-dispatcher"}),
	}
}

// Notify renders r and delivers it on every enabled channel concurrently.
// The returned Output lists each channel's result; the error is a
// NOTIFICATION_FAILED StandardError when rendering or any channel failed.
func (d *Dispatcher) Notify(ctx context.Context, r *models.ApplicationRecord) (*Output, error) {
	out := &Output{NotificationID: uuid.New().String(), SentAt: time.Now().UTC()}

	doc, err := rendernotification.Render(r)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(models.ChannelEmail, models.StatusFailed).Inc()
		return out, stderrors.NewNotificationFailedError("render", err)
	}

	emailOn := d.config.EmailEnabled && d.mailer != nil
	smsOn := d.config.SMSEnabled && d.alerter != nil

	out.Results = []models.NotificationResult{
		{Channel: models.ChannelEmail, Status: models.StatusDisabled},
		{Channel: models.ChannelSMS, Status: models.StatusDisabled},
	}

	var g errgroup.Group
	if emailOn {
		msg := &models.NotificationMessage{
			To:          d.config.Recipients,
			Subject:     doc.Subject,
			HTML:        doc.HTML,
			Attachments: r.Attachments.Present(),
		}
		g.Go(func() error {
			id, err := d.mailer.Send(ctx, msg)
			return d.record(&out.Results[0], id, err)
		})
	}
	if smsOn {
		g.Go(func() error {
			id, err := d.alerter.Alert(ctx, doc.Subject)
			return d.record(&out.Results[1], id, err)
		})
	}

	if err := g.Wait(); err != nil {
		return out, stderrors.NewNotificationFailedError(failedChannel(out.Results), err)
	}

	d.logger.Info("notification dispatched", map[string]interface{}{
		"notificationId": out.NotificationID,
		"status":         out.Status(),
		"subject":        doc.Subject,
	})
	return out, nil
}

func failedChannel(results []models.NotificationResult) string {
	for _, r := range results {
		if r.Status == models.StatusFailed {
			return r.Channel
		}
	}
	return models.ChannelEmail
}

func (d *Dispatcher) record(res *models.NotificationResult, id string, err error) error {
	if err != nil {
		res.Status = models.StatusFailed
		res.Error = err.Error()
		metrics.NotificationsTotal.WithLabelValues(res.Channel, models.StatusFailed).Inc()
		d.logger.Error("notification channel failed", map[string]interface{}{
			"channel": res.Channel,
			"error":   err,
		})
		return err
	}
	res.Status = models.StatusSent
	res.MessageID = id
	metrics.NotificationsTotal.WithLabelValues(res.Channel, models.StatusSent).Inc()
	return nil
}
