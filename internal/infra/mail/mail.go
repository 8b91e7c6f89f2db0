// Package mail provides the two interchangeable email backends. The backend
// is selected once at startup from configuration and injected everywhere as
// the domain Mailer interface, never reached through package globals.
package mail

import (
	"fmt"

	domainMail "pebble_scheduler/internal/domain/mail"
	"pebble_scheduler/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// NewMailer builds the configured backend. For SMTP the transport is
// verified immediately; a failed verification is logged but does not abort
// startup, the first real send will surface it again.
func NewMailer(cfg *config.AppConfig, log *logrus.Logger) (domainMail.Mailer, error) {
	switch cfg.MailProvider {
	case config.ProviderSMTP:
		mailer := NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		if err := mailer.Verify(); err != nil {
			log.WithError(err).Error("SMTP transport verification failed")
		} else {
			log.Infof("SMTP transport ready (%s:%d)", cfg.SMTPHost, cfg.SMTPPort)
		}
		return mailer, nil
	case config.ProviderSendGrid:
		log.Info("Using SendGrid mail backend (detached delivery)")
		return NewSendGridMailer(SendGridConfig{APIKey: cfg.SendGridAPIKey, Logger: log}), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}
}
