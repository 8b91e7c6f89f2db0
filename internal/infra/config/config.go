package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mail provider selection values. The provider is fixed once per process.
const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL      string
	MailProvider     string // "smtp" or "sendgrid"
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SendGridAPIKey   string
	FromAddress      string
	PostponeBaseURL  string
	ReminderLeadDays int
	CronSpecDaily    string
	HTTPAddr         string
	LogLevel         string
	Environment      string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.MailProvider = strings.ToLower(os.Getenv("MAIL_PROVIDER"))
	if cfg.MailProvider == "" {
		cfg.MailProvider = ProviderSMTP
	}
	if cfg.MailProvider != ProviderSMTP && cfg.MailProvider != ProviderSendGrid {
		return nil, fmt.Errorf("invalid MAIL_PROVIDER %q (expected %q or %q)", cfg.MailProvider, ProviderSMTP, ProviderSendGrid)
	}

	switch cfg.MailProvider {
	case ProviderSMTP:
		cfg.SMTPHost = os.Getenv("SMTP_HOST")
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is not set")
		}
		portStr := os.Getenv("SMTP_PORT")
		if portStr == "" {
			portStr = "587"
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		}
		cfg.SMTPPort = port
		cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
		cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	case ProviderSendGrid:
		cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
		}
	}

	cfg.FromAddress = os.Getenv("FROM_ADDRESS")
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("FROM_ADDRESS is not set")
	}

	cfg.PostponeBaseURL = os.Getenv("POSTPONE_BASE_URL")
	if cfg.PostponeBaseURL == "" {
		cfg.PostponeBaseURL = "http://localhost:8080"
	}

	leadStr := os.Getenv("REMINDER_LEAD_DAYS")
	if leadStr == "" {
		leadStr = "10"
	}
	lead, err := strconv.Atoi(leadStr)
	if err != nil || lead <= 0 {
		return nil, fmt.Errorf("invalid REMINDER_LEAD_DAYS %q", leadStr)
	}
	cfg.ReminderLeadDays = lead

	cfg.CronSpecDaily = os.Getenv("CRON_SPEC_DAILY")
	if cfg.CronSpecDaily == "" {
		cfg.CronSpecDaily = "0 8 * * *" // Default: 8:00 AM daily
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
