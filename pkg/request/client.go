package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
)

// HTTPError is a non-2xx response. Responses in the 4xx range are never
// retried, the caller's input will not get better on a second attempt.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

func (e *HTTPError) clientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// Client executes JSON HTTP calls with a per-attempt timeout and bounded
// exponential-backoff retry.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	headers     map[string]string
	timeout     time.Duration
	retries     int
	backoffBase time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackoffBase overrides the first retry delay. Attempt i waits base*2^i.
func WithBackoffBase(d time.Duration) Option {
	return func(c *Client) { c.backoffBase = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{},
		headers:     map[string]string{"Content-Type": "application/json"},
		timeout:     DefaultTimeout,
		retries:     DefaultRetries,
		backoffBase: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Options are per-call overrides merged over the client's defaults.
type Options struct {
	Method  string
	Headers map[string]string
	Body    any
	Timeout time.Duration
}

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Request(ctx, path, Options{Method: http.MethodGet})
}

// Post serializes body as JSON. A nil body is sent as a JSON null.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, path, Options{Method: http.MethodPost, Body: body})
}

// Request performs the call, retrying up to the configured retry count on
// network errors and server-side statuses. The first attempt has no wait,
// attempt i sleeps base*2^(i-1) beforehand. After exhaustion the last error
// is returned as-is.
func (c *Client) Request(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	method := opts.Method
	if len(method) == 0 {
		method = http.MethodGet
	}
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	var payload []byte
	if method != http.MethodGet {
		var err error
		payload, err = json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		res, err := c.do(ctx, method, path, payload, requestID, timeout, opts.Headers)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if httpErr, ok := err.(*HTTPError); ok && httpErr.clientError() {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, requestID string, timeout time.Duration, headers map[string]string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if method != http.MethodGet {
		body = bytes.NewReader(payload)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}
