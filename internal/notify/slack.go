// Package notify posts messages to a Slack incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single Send. Failed sends are not retried.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a rejected response is kept in StatusError.
const maxErrorBody = 4 << 10

// ErrNoWebhookURL is returned by Send when no webhook URL is configured.
var ErrNoWebhookURL = errors.New("slack webhook URL not configured")

// StatusError is returned when Slack answers with anything but 200.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("slack returned status %d: %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether err came from the request timing out.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// message is the incoming-webhook payload.
type message struct {
	Text     string `json:"text"`
	Markdown bool   `json:"mrkdwn"`
}

// Slack sends text to one incoming webhook.
type Slack struct {
	webhookURL string
	client     *http.Client
}

// NewSlack creates a notifier for webhookURL. A non-positive timeout means
// DefaultTimeout.
func NewSlack(webhookURL string, timeout time.Duration) *Slack {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Slack{
		webhookURL: strings.TrimSpace(webhookURL),
		client:     &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a webhook URL is set.
func (s *Slack) Configured() bool {
	return s.webhookURL != ""
}

// Send posts text. rich enables Slack mrkdwn formatting.
func (s *Slack) Send(ctx context.Context, text string, rich bool) error {
	if !s.Configured() {
		return ErrNoWebhookURL
	}

	payload, err := json.Marshal(message{Text: text, Markdown: rich})
	if err != nil {
		return fmt.Errorf("marshaling slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
