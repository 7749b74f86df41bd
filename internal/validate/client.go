// Package validate checks an API token against the remote service.
package validate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Outcome states. They are never collapsed into one another.
const (
	StateValid       = "valid"
	StateInvalid     = "invalid"
	StateUnreachable = "unreachable"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.filingexplorer.com"

// Outcome is the result of one validation call.
type Outcome struct {
	State   string `json:"state"`
	Status  int    `json:"status,omitempty"`
	Message string `json:"message"`
}

// Valid reports whether the token was accepted.
func (o Outcome) Valid() bool { return o.State == StateValid }

// Client validates tokens. The zero value is not usable; use NewClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a Client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Validate sends an authenticated request that any valid token may make.
// Cancellation and transport failures yield StateUnreachable.
func (c *Client) Validate(ctx context.Context, token string) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/lists", nil)
	if err != nil {
		return Outcome{State: StateUnreachable, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Outcome{State: StateUnreachable, Message: fmt.Sprintf("could not reach API: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Outcome{State: StateValid, Status: resp.StatusCode, Message: "API token is valid"}
	case resp.StatusCode == http.StatusUnauthorized:
		return Outcome{State: StateInvalid, Status: resp.StatusCode, Message: "Invalid API token"}
	default:
		return Outcome{State: StateInvalid, Status: resp.StatusCode, Message: fmt.Sprintf("Unexpected response: %s", resp.Status)}
	}
}
