package mail

import (
	"context"
	"fmt"
	"time"

	domainMail "pebble_scheduler/internal/domain/mail"

	gomail "gopkg.in/mail.v2"
)

const smtpDialTimeout = 15 * time.Second

// SMTPMailer is the transport backend: every Send dials the configured SMTP
// server and waits for the delivery outcome, so failures reach the caller.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	dialer := gomail.NewDialer(host, port, username, password)
	dialer.Timeout = smtpDialTimeout
	return &SMTPMailer{dialer: dialer}
}

// Verify dials the SMTP server and closes the connection again. Called once
// at startup to surface misconfiguration before the first batch run.
func (m *SMTPMailer) Verify() error {
	closer, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	return closer.Close()
}

func (m *SMTPMailer) Send(ctx context.Context, msg domainMail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", msg.From)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Body)

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
