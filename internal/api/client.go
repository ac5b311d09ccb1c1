// Package api provides the HTTP transport used by every backend call.
// It is the single request/response wrapper of the client: all requests are
// credentialed through the cookie jar, and any non-2xx status is converted
// into an *APIError carrying the server's message field when present.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shubham-309/chatbot/internal/logging"
)

// APIError is the sole failure signal surfaced by the transport for
// responses the server actually produced. Connection-level failures come
// back as ordinary wrapped errors instead.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client issues HTTP calls against a configured base address with
// credentials always included.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a transport client. The jar carries the backend's
// HTTP-only session cookie; pass nil for unauthenticated use in tests.
func NewClient(baseURL string, timeout time.Duration, jar http.CookieJar) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}
}

// BaseURL returns the configured base address without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EndpointURL returns the absolute URL for an endpoint. Used for targets
// that are navigated to rather than fetched, like the Google login redirect.
func (c *Client) EndpointURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Request issues an HTTP call. body (if non-nil) is JSON-encoded; out (if
// non-nil) receives the decoded JSON response. Non-2xx statuses become
// *APIError with the server-provided message field when present.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.EndpointURL(endpoint), reader)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	logging.APIDebug("%s %s", method, endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		logging.APIError("%s %s: %v", method, endpoint, err)
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := errorFromResponse(resp.StatusCode, data)
		logging.APIError("%s %s: status %d: %s", method, endpoint, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
		}
	}

	return nil
}

// Get issues a credentialed GET request.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

// Post issues a credentialed POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

// errorFromResponse extracts the server's message field. The backend is not
// consistent about the key ("message" on auth routes, "msg" on validation
// failures), so both are accepted.
func errorFromResponse(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	message := "API request failed"
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			message = payload.Message
		} else if payload.Msg != "" {
			message = payload.Msg
		}
	}
	return &APIError{StatusCode: status, Message: message}
}
