package mailer

import (
	"github.com/nishikaramnani04/PIH2026-SHEield/shared"
	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text alerts through an authenticated SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(config shared.SmtpConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		from:   config.From,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
