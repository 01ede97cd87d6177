// Package telegram implements the notifier port on the Telegram Bot API.
// Only the two methods the fan-out needs are covered: sendMessage and
// sendPhoto (by file id or URL).
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

var ErrNotifierIsInvalid = errors.New("Notifier requires a bot token")

// Notifier sends chat messages through the Telegram Bot API.
type Notifier struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithBaseURL overrides the Telegram API base URL. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(n *Notifier) {
		n.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// NewNotifier creates a Telegram notifier for the given bot token.
func NewNotifier(token string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, ErrNotifierIsInvalid
	}

	n := &Notifier{
		baseURL: defaultBaseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Send delivers message to the recipient chat. A non-empty photoRef switches
// to sendPhoto with the message as caption.
func (n *Notifier) Send(ctx context.Context, recipient int64, message, photoRef string) error {
	if photoRef != "" {
		return n.call(ctx, "sendPhoto", map[string]any{
			"chat_id": recipient,
			"photo":   photoRef,
			"caption": message,
		})
	}
	return n.call(ctx, "sendMessage", map[string]any{
		"chat_id": recipient,
		"text":    message,
	})
}

func (n *Notifier) call(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", n.baseURL, n.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram %s: %s", method, describeFailure(resp))
	}
	return nil
}

// describeFailure extracts Telegram's error description from the response
// body, falling back to the HTTP status.
func describeFailure(resp *http.Response) string {
	var apiResp struct {
		Description string `json:"description"`
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && json.Unmarshal(raw, &apiResp) == nil && apiResp.Description != "" {
		return apiResp.Description
	}
	return resp.Status
}
