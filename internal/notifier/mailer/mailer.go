// Package mailer sends plain-text emails over SMTP.
package mailer

import (
	"gopkg.in/gomail.v2"

	"inspirehub/pkg/config"
)

// Sender delivers a single plain-text email.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) Sender {
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.SMTPFrom,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
