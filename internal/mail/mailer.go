// Package mail sends the reminder, report and export notification emails.
// Delivery is observability-adjacent glue: send failures are logged by
// callers, never propagated into the operations that triggered them.
package mail

import (
	"gopkg.in/gomail.v2"
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTP creates a mailer for the given relay.
func NewSMTP(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers one message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// Disabled is a no-op mailer for deployments without SMTP.
type Disabled struct{}

var _ Mailer = Disabled{}

// Send discards the message.
func (Disabled) Send(string, string, string) error {
	return nil
}
