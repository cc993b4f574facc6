package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/config"
)

// Notifier is the outbound notification boundary. Failures are reported to
// the caller but never abort the business transaction that triggered them.
type Notifier interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail through a configured SMTP relay
type SMTPMailer struct {
	cfg *config.SMTPConfig
}

// NewSMTPMailer creates a mailer from configuration
func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message to a single recipient
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
