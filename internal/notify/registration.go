// Package notify sends the registration welcome notification to the backend.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trackmyprogress/internal/session"
)

const registrationPath = "/api/send-registration"

// RegistrationRequest is the body of POST /api/send-registration.
type RegistrationRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client posts registration notifications to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ session.Notifier = (*Client)(nil)

// New returns a notifier for the backend at baseURL. An empty baseURL yields a
// no-op notifier.
func New(baseURL string, timeout time.Duration) session.Notifier {
	if baseURL == "" {
		return session.NopNotifier{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NotifyRegistration sends {email, name}. Any non-2xx answer is an error.
func (c *Client) NotifyRegistration(ctx context.Context, email, name string) error {
	payload, err := json.Marshal(RegistrationRequest{Email: email, Name: name})
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registrationPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send registration: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("registration endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
