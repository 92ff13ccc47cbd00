package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound mail transport
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
}

func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// Send opens a fresh SMTP connection per message. ctx is only checked
// before dialing since gomail has no context support
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == m.sender {
		return errors.New("invalid email address")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

// LogMailer only logs messages. It's used when no SMTP host is configured
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, body string) error {
	zap.L().Info("Email not sent, no mail host configured",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))

	return nil
}
