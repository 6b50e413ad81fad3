// Package api implements the authenticated request client for the
// remote mail service. It is the single place where raw HTTP outcomes
// are classified into the client error taxonomy, and it transparently
// renews an expired access token once per logical call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mchen04/penguin-mail/internal/session"
)

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	// Body is JSON-marshalled when non-nil.
	Body any

	// Query is appended to the request URL.
	Query url.Values
}

// Client issues requests against the versioned API root, attaching the
// stored bearer credential and retrying exactly once after a
// successful token refresh.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	store          session.Store
	log            *logrus.Logger
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout bounds a single HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the given versioned API root (e.g.
// http://localhost:8000/api/v1) using store for credentials.
func NewClient(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		store: store,
		log:   logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetOnUnauthorized registers the callback invoked when the session
// becomes unauthenticated (failed refresh or repeated 401). Callers
// use it to force a logout. At most one callback is registered.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	return c.Do(ctx, http.MethodGet, path, RequestOptions{Query: query}, result)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, RequestOptions{Body: body}, result)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPatch, path, RequestOptions{Body: body}, result)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodDelete, path, RequestOptions{}, result)
}

// Do issues one logical request. On a 401 it attempts a single token
// refresh and re-issues the request once; any further 401 is fatal.
// result may be nil when no response body is expected.
func (c *Client) Do(ctx context.Context, method, path string, opts RequestOptions, result any) error {
	return c.do(ctx, method, path, opts, result, false)
}

func (c *Client) do(ctx context.Context, method, path string, opts RequestOptions, result any, isRetry bool) error {
	var bodyReader io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path, opts.Query), bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.attachBearer(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{Err: readErr}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if isRetry {
			c.resetSession()
			return &AuthError{Message: "session expired"}
		}
		if err := c.refreshAccessToken(ctx); err != nil {
			c.resetSession()
			return &AuthError{Message: "session expired"}
		}
		c.log.WithField("path", path).Debug("access token refreshed, retrying request")
		return c.do(ctx, method, path, opts, result, true)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp.StatusCode, errorDetail(respBody))
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}
	return nil
}

// Upload sends a file as a multipart form under the "file" field. The
// bearer credential and error classification match Do, but no
// refresh-retry is attempted.
func (c *Client) Upload(ctx context.Context, path, filename string, file io.Reader, result any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("creating multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copying upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(path, nil), &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.attachBearer(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{Err: readErr}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Message: "session expired"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp.StatusCode, errorDetail(respBody))
	}
	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling upload response: %w", err)
	}
	return nil
}

func (c *Client) requestURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) attachBearer(req *http.Request) {
	creds, err := c.store.Load()
	if err != nil {
		c.log.WithError(err).Warn("loading credentials failed, sending unauthenticated request")
		return
	}
	if creds.Access != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Access)
	}
}

// resetSession clears stored credentials and notifies the registered
// callback once.
func (c *Client) resetSession() {
	if err := c.store.Clear(); err != nil {
		c.log.WithError(err).Warn("clearing credentials failed")
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// errorDetail extracts the server's "detail" field from an error body,
// returning "" when the body is not parseable.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
