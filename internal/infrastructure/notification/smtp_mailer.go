package notification

import (
	"context"
	"fmt"

	"github.com/propstack/backend/internal/domain/notification"
	"github.com/propstack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers notifications over SMTP. When disabled it logs the
// message and reports success, so business flows behave the same in
// environments without a mail server.
type SMTPMailer struct {
	config config.SMTPConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPMailer creates a mailer from the SMTP configuration
func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger.Named("mailer"),
	}
}

// Send delivers a single message
func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) error {
	if !m.config.Enabled {
		m.logger.Info("Mail delivery disabled, skipping",
			zap.String("template", string(msg.Template)),
			zap.String("recipient", msg.Recipient),
		)
		return nil
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.config.FromAddress)
	mail.SetHeader("To", msg.Recipient)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", renderBody(msg))

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.logger.Error("Failed to send mail",
			zap.String("template", string(msg.Template)),
			zap.String("recipient", msg.Recipient),
			zap.Error(err),
		)
		return fmt.Errorf("smtp: failed to send mail: %w", err)
	}

	m.logger.Info("Mail sent",
		zap.String("template", string(msg.Template)),
		zap.String("recipient", msg.Recipient),
	)
	return nil
}

// renderBody builds the plain-text body for a message template
func renderBody(msg notification.Message) string {
	switch msg.Template {
	case notification.TemplatePaymentDue:
		return fmt.Sprintf(
			"Hello %s,\n\nYour rent payment of %s %s is due on %s.\nYou can pay online here: %s\n",
			msg.Context["first_name"],
			msg.Context["amount"],
			msg.Context["currency"],
			msg.Context["due_date"],
			msg.Context["checkout_url"],
		)
	case notification.TemplatePaymentConfirmed:
		return fmt.Sprintf(
			"Hello %s,\n\nWe received your rent payment of %s %s. Thank you.\n",
			msg.Context["first_name"],
			msg.Context["amount"],
			msg.Context["currency"],
		)
	case notification.TemplateUserActivation:
		return fmt.Sprintf(
			"Hello %s,\n\nYour account has been created and is awaiting activation.\nYou will be notified once an administrator activates it.\n",
			msg.Context["first_name"],
		)
	default:
		return msg.Subject
	}
}

// Ensure SMTPMailer implements Sender
var _ notification.Sender = (*SMTPMailer)(nil)
