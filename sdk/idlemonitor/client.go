package idlemonitor

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

// ErrUnauthorized is returned when the server rejects the credentials.
// Callers should treat it as a terminal condition for the session.
var ErrUnauthorized = errors.New("unauthorized")

// TokenSource supplies the bearer token for each request, so the client
// always sends whatever the credential store currently holds.
type TokenSource func() string

// SessionStatus is the server's view of the caller's session.
type SessionStatus struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	TimeRemaining *int   `json:"timeRemaining,omitempty"`
}

// Client is the session API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// ClientOption is a function that configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// NewClient creates a new session API client.
//
// Parameters:
//   - baseURL: The API base URL including the /api prefix
//     (e.g., "https://shop.example.com/api")
//   - tokens: Source of the bearer token for each request
func NewClient(baseURL string, tokens TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionStatus retrieves the server-side classification of the session.
// The server does not count this call as user activity.
func (c *Client) SessionStatus(ctx context.Context) (*SessionStatus, error) {
	var status SessionStatus
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/user/session-status", nil, &status); err != nil {
		return nil, fmt.Errorf("session status: %w", err)
	}
	return &status, nil
}

// Logout terminates the server-side session record.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/user/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// KeepAlive performs a lightweight authenticated request that the server
// counts as activity, refreshing the session record.
func (c *Client) KeepAlive(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/user/me", nil, nil); err != nil {
		return fmt.Errorf("keepalive: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request and decodes the response envelope.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if c.tokens != nil {
		if token := c.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if result == nil {
		return nil
	}

	var apiResp struct {
		Success bool   `json:"success"`
		Data    any    `json:"data"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.Success {
		return fmt.Errorf("api error: %s", apiResp.Message)
	}

	if apiResp.Data == nil {
		return nil
	}

	// Re-marshal and unmarshal to convert Data to the target type
	dataBytes, err := json.Marshal(apiResp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if err := json.Unmarshal(dataBytes, result); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}
