// Package email renders and delivers transactional emails.
// Senders are resolved at startup; modules depend on the Sender
// interface only.
package email

import (
	"context"

	"wholesale_crm_backend/platform/config"
)

// Sender delivers the CRM's transactional emails.
type Sender interface {
	SendTaskDueEmail(ctx context.Context, toEmail, taskTitle, priority, dueAt, leadLabel string) error
	SendOfferAcceptedEmail(ctx context.Context, toEmail, buyerName, amountFormatted, leadLabel string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NewSender picks the SMTP sender when email is enabled and the noop
// sender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender is used when SMTP is not configured. Every send succeeds
// without doing anything.
type NoopSender struct{}

func (NoopSender) SendTaskDueEmail(context.Context, string, string, string, string, string) error {
	return nil
}

func (NoopSender) SendOfferAcceptedEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) error {
	return nil
}
