// Package mailer delivers out-of-band messages to users, primarily the
// password-recovery codes. When SMTP is not configured the LogSender stands
// in and writes the message to the application log instead.
package mailer

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// Sender delivers a plain-text message to a single recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// Mailer sends mail through an SMTP server.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a Mailer for the given SMTP server.
func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send implements Sender.
func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LogSender writes messages to the log instead of delivering them. Used in
// development, where seeing the OTP in the console replaces the email.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(to, subject, body string) error {
	log.Info().Str("to", to).Str("subject", subject).Str("body", body).Msg("Mail delivery disabled, logging message")
	return nil
}
