// Package chatbot relays resident messages to the external automation
// webhook that powers the GEMA assistant and carries the embedded-widget
// configuration for deployments that use the vendor-hosted chat UI instead.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no webhook URL is set.
	ErrNotConfigured = errors.New("chat webhook not configured")
	// ErrBadStatus is returned on a non-2xx webhook response.
	ErrBadStatus = errors.New("chat webhook returned non-success status")
	// ErrEmptyReply is returned when the webhook responds without a
	// usable response or message field.
	ErrEmptyReply = errors.New("chat webhook returned no reply text")
)

// DefaultTimeout bounds each webhook exchange.
const DefaultTimeout = 15 * time.Second

// Client is the outbound interface to the chat automation webhook.
type Client interface {
	// Send posts the resident's message and returns the bot's reply text.
	Send(ctx context.Context, message string, sentAt time.Time) (string, error)
}

// webhookRequest is the JSON body posted to the webhook.
type webhookRequest struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"` // ISO-8601
}

// webhookResponse is the JSON body the webhook replies with. Either field
// may carry the reply; response wins when both are present.
type webhookResponse struct {
	Response string `json:"response"`
	Message  string `json:"message"`
}

// WebhookClient posts messages to a fixed automation webhook URL.
type WebhookClient struct {
	url    string
	client *http.Client
}

var _ Client = (*WebhookClient)(nil)

// NewWebhookClient creates a client for the given webhook URL.
// PRE: url is empty (unconfigured) or a valid absolute URL
// POST: Returns a client with a bounded per-request timeout
func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:    url,
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// Send posts the message and parses the reply.
// PRE: message is non-empty
// POST: Returns the reply text, or a classified error for the caller to
// map to a fallback message
func (c *WebhookClient) Send(ctx context.Context, message string, sentAt time.Time) (string, error) {
	if c.url == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(webhookRequest{
		Message:   message,
		Timestamp: sentAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("chat_webhook_failed", "error", err)
		return "", fmt.Errorf("chat webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("chat_webhook_bad_status", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var parsed webhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Error("chat_webhook_bad_body", "error", err)
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	reply := parsed.Response
	if reply == "" {
		reply = parsed.Message
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}

	slog.Info("chat_webhook_reply", "duration_ms", float64(time.Since(start).Microseconds())/1000.0)
	return reply, nil
}
