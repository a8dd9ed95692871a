package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Message is a rendered report ready for delivery. The HTML body is
// produced upstream; this package only hands it to the provider.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Mailer delivers a rendered report. Delivery itself (SMTP, templates,
// retries) belongs to the external provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPMailer posts messages as JSON to an email provider's API.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPMailer creates a mailer for the given provider endpoint.
func NewHTTPMailer(endpoint, apiKey string, logger *zap.Logger) *HTTPMailer {
	return &HTTPMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

// Send posts the message to the provider and treats any non-2xx status
// as a delivery error.
func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	m.logger.Info("report handed to email provider",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// NopMailer logs instead of delivering. Used when no provider is
// configured.
type NopMailer struct {
	logger *zap.Logger
}

// NewNopMailer creates a no-op mailer.
func NewNopMailer(logger *zap.Logger) *NopMailer {
	return &NopMailer{logger: logger}
}

// Send logs the message and drops it.
func (m *NopMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Warn("no email provider configured, dropping message",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
