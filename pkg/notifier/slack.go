package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sambabib/depnotify/pkg/credentials"
)

const (
	// DefaultTimeout bounds one chat.postMessage call
	DefaultTimeout = 30 * time.Second

	maxResponseBody = 64 * 1024
)

// Endpoint returns the chat.postMessage URL of a workspace.
func Endpoint(workspace string) string {
	return credentials.ScopeURL(workspace) + "/api/chat.postMessage"
}

// NotificationFailed covers transport errors, timeouts and non-200 answers.
type NotificationFailed struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *NotificationFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to post to slack: %v", e.Err)
	}
	return fmt.Sprintf("bad response from slack api (status %d), message: %s", e.StatusCode, e.Body)
}

func (e *NotificationFailed) Unwrap() error {
	return e.Err
}

// SlackNotifier posts messages with a bot token
type SlackNotifier struct {
	endpoint string
	client   *http.Client
}

// NewSlack creates a SlackNotifier for the given workspace. A zero timeout
// means DefaultTimeout.
func NewSlack(workspace string, timeout time.Duration) *SlackNotifier {
	return NewSlackWithEndpoint(Endpoint(workspace), timeout)
}

// NewSlackWithEndpoint is NewSlack with an explicit URL.
func NewSlackWithEndpoint(endpoint string, timeout time.Duration) *SlackNotifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SlackNotifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Notify sends payload to Slack. Only HTTP 200 counts as delivered.
func (s *SlackNotifier) Notify(ctx context.Context, payload Payload, secret credentials.Secret) error {
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	// keep "->" readable on the wire
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return &NotificationFailed{Err: fmt.Errorf("failed to marshal slack message: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return &NotificationFailed{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+secret.Reveal())
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &NotificationFailed{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &NotificationFailed{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return &NotificationFailed{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return nil
}
