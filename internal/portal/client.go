package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a thin HTTP client for the SmartAssist campus backend. It
// handles session-cookie authentication, JSON marshaling, automatic retry
// with exponential backoff on HTTP 429, and maps failures onto the typed
// error taxonomy in errors.go.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
	maxRetries int
}

// sessionCookie is the cookie name the backend's auth dependency reads.
const sessionCookie = "session_token"

// NewClient creates a new portal client. The baseURL should be the root
// URL of the backend (e.g., http://portal.campus.example.edu). The session
// value is the token issued at sign-in and sent as a cookie on every call.
func NewClient(baseURL, session string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals the
// JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, result)
}

// PostForm performs an HTTP POST with URL-encoded form fields. A few of
// the backend's endpoints are form-based rather than JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	return c.send(
		ctx, http.MethodPost, path,
		[]byte(form.Encode()), "application/x-www-form-urlencoded",
		result,
	)
}

// backendError is the FastAPI error envelope. Some endpoints return
// {"detail": ...}, the form handlers return {"success": false, "error": ...}.
type backendError struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e backendError) text() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Error != "":
		return e.Error
	default:
		return e.Message
	}
}

// do marshals a JSON body, if any, and hands off to send.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}
	return c.send(ctx, method, path, data, "application/json", result)
}

// send is the core HTTP method that builds the request, attaches the
// session cookie, retries on rate limiting, and decodes the JSON response.
func (c *Client) send(
	ctx context.Context,
	method string,
	path string,
	body []byte,
	contentType string,
	result interface{},
) error {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", contentType)
		}
		if c.session != "" {
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &NetworkError{
				Op:  fmt.Sprintf("%s %s", method, path),
				Err: err,
			}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return &NetworkError{
				Op:  fmt.Sprintf("%s %s", method, path),
				Err: readErr,
			}
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = &ServerError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("rate limited on %s %s", method, path),
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return &AuthError{
				Message: "session expired, sign in to the portal again",
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var be backendError
			if json.Unmarshal(respBody, &be) == nil && be.text() != "" {
				return &ServerError{
					StatusCode: resp.StatusCode,
					Message:    be.text(),
				}
			}
			return &ServerError{
				StatusCode: resp.StatusCode,
				Message:    strings.TrimSpace(string(respBody)),
			}
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w", method, path, err,
			)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
