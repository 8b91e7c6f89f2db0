package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainMail "pebble_scheduler/internal/domain/mail"

	"github.com/sirupsen/logrus"
)

// sendGridAPIBase is the default SendGrid API base URL. Overridable in tests
// via SendGridConfig.BaseURL.
const sendGridAPIBase = "https://api.sendgrid.com"

// SendGridConfig holds the configuration for creating a SendGridMailer.
type SendGridConfig struct {
	APIKey  string
	BaseURL string // Override for testing; defaults to sendGridAPIBase
	Logger  *logrus.Logger
}

// SendGridMailer is the API backend: it talks to the SendGrid v3 Mail Send
// endpoint directly over HTTP.
//
// Delivery is detached: Send hands the message off in a goroutine and
// returns nil immediately. Failures are logged here and never reach the
// batch aggregate, and a run may finish while deliveries are in flight.
type SendGridMailer struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *logrus.Logger
}

func NewSendGridMailer(cfg SendGridConfig) *SendGridMailer {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = sendGridAPIBase
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	return &SendGridMailer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     log,
	}
}

func (m *SendGridMailer) Send(ctx context.Context, msg domainMail.Message) error {
	go func() {
		// The batch run must not wait on API sends; detach from the run's
		// deadline but keep the client's own timeout.
		if err := m.deliver(context.WithoutCancel(ctx), msg); err != nil {
			m.logger.WithError(err).WithField("to", msg.To).Error("sendgrid delivery failed")
		}
	}()
	return nil
}

// SendGrid v3 mail/send payload.
type sgPayload struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
}

type sgPersonalization struct {
	To []sgAddress `json:"to"`
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (m *SendGridMailer) deliver(ctx context.Context, msg domainMail.Message) error {
	payload := sgPayload{
		Personalizations: []sgPersonalization{{To: []sgAddress{{Email: msg.To}}}},
		From:             sgAddress{Email: msg.From},
		Subject:          msg.Subject,
		Content:          []sgContent{{Type: "text/plain", Value: msg.Body}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendgrid payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendgrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
