package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the operations the todo store needs from the backend.
// It is implemented by *Client and can be faked in tests.
type Service interface {
	FetchAllTodos(ctx context.Context) ([]Todo, error)
	CreateTodo(ctx context.Context, description string) (Todo, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultRequestTimeout bounds every request.
	DefaultRequestTimeout = 10000 * time.Millisecond

	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	todosPath        = "/todos/"
	defaultUserAgent = "jot/0.1"
	maxBodyBytes     = 4 << 20
)

// Client talks to the todo HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides DefaultRequestTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger for request outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		timeout:   DefaultRequestTimeout,
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Timeout returns the request timeout in effect.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// FetchAllTodos retrieves every todo. A body without a todos field yields an
// empty slice.
func (c *Client) FetchAllTodos(ctx context.Context) ([]Todo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	todos := []Todo{}
	raw, ok := field(body, "todos")
	if !ok {
		return todos, nil
	}
	if err := json.Unmarshal(raw, &todos); err != nil {
		return nil, unexpectedError(fmt.Errorf("decode todos: %w", err))
	}
	return todos, nil
}

// CreateTodo creates a todo with the given description. The created item is
// taken from the todo field of the response, or from the whole body when
// that field is absent.
func (c *Client) CreateTodo(ctx context.Context, description string) (Todo, error) {
	if c == nil {
		return Todo{}, fmt.Errorf("client is nil")
	}
	body, err := c.do(ctx, http.MethodPost, CreateRequest{Description: description})
	if err != nil {
		return Todo{}, err
	}
	raw, ok := field(body, "todo")
	if !ok {
		raw = body
	}
	var todo Todo
	if err := json.Unmarshal(raw, &todo); err != nil {
		return Todo{}, unexpectedError(fmt.Errorf("decode todo: %w", err))
	}
	return todo, nil
}

// do performs one request against the todos endpoint and returns the raw
// JSON body of a 2xx response. Every failure is an *APIError.
func (c *Client) do(ctx context.Context, method string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, unexpectedError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.endpoint()
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, unexpectedError(fmt.Errorf("create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	outcome, release := race(ctx, c.http, req, c.timeout)
	defer release()

	var (
		body   []byte
		apiErr *APIError
	)
	switch out := outcome.(type) {
	case responded:
		body, apiErr = handleResponse(out.resp)
	case timedOut:
		apiErr = timeoutError()
	case transportFailed:
		apiErr = networkError(out.cause)
	case cancelled:
		apiErr = unexpectedError(out.cause)
	}

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", reqURL),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	}
	if apiErr != nil {
		fields = append(fields,
			zap.Int("status", apiErr.Status),
			zap.Stringer("kind", apiErr.Kind),
			zap.String("error", apiErr.Message),
		)
		c.logger.Warn("todo api request failed", fields...)
		return nil, apiErr
	}
	c.logger.Debug("todo api request", fields...)
	return body, nil
}

func handleResponse(resp *http.Response) ([]byte, *APIError) {
	defer func() { _ = resp.Body.Close() }()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		return nil, invalidFormatError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unexpectedError(fmt.Errorf("read response: %w", err))
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, unexpectedError(fmt.Errorf("decode response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, parsed)
	}
	return body, nil
}

func (c *Client) endpoint() string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + todosPath
	return u.String()
}

// field returns the named member of a JSON object when it is present and
// truthy (not null, false, 0 or "").
func field(body []byte, name string) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, false
	}
	raw, ok := obj[name]
	if !ok {
		return nil, false
	}
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0", `""`:
		return nil, false
	}
	return raw, true
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", baseURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
