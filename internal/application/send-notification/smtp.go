package sendnotification

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"now-hiring/internal/common/logger"
	"now-hiring/internal/models"
)

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends through a plain SMTP relay, upgrading with STARTTLS when
// UseTLS is set.
type SMTPMailer struct {
	config *Config
	logger logger.Logger
	send   sendFunc
	now    func() time.Time
}

func NewSMTPMailer(config *Config, log logger.Logger) *SMTPMailer {
	m := &SMTPMailer{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "smtp-mailer"}),
		now:    time.Now,
	}
	m.send = smtp.SendMail
	if config.UseTLS {
		m.send = m.sendWithTLS
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg *models.NotificationMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled before sending email: %w", err)
	}
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}

	raw, err := BuildMIME(m.config.FromEmail, msg, m.now())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
	}

	addr := fmt.Sprintf("%s:%d", m.config.SMTPHost, m.config.SMTPPort)

	var auth smtp.Auth
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		auth = smtp.PlainAuth("", m.config.SMTPUsername, m.config.SMTPPassword, m.config.SMTPHost)
	}

	if err := m.send(addr, auth, m.config.FromEmail, msg.To, raw); err != nil {
		return "", fmt.Errorf("%w: smtp: %v", ErrNotificationSendFailed, err)
	}

	messageID := m.generateMessageID(msg.To[0])
	m.logger.Info("email sent", map[string]interface{}{
		"recipients": len(msg.To),
		"messageId":  messageID,
	})
	return messageID, nil
}

func (m *SMTPMailer) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: m.config.SMTPHost}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (m *SMTPMailer) generateMessageID(to string) string {
	return fmt.Sprintf("<%d.%s@%s>", m.now().UnixNano(), sanitizeLocalPart(to), m.config.SMTPHost)
}

// sanitizeLocalPart keeps up to ten alphanumerics from the local part of email.
func sanitizeLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, local)
	if len(local) > 10 {
		local = local[:10]
	}
	if local == "" {
		return "user"
	}
	return local
}
