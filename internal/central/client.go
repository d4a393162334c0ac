// Package central is a client for the ZeroTier Central REST API.
//
// The client returns decoded JSON objects and leaves their interpretation to
// the mapper package. Each method issues exactly one HTTP request. There are
// no retries.
package central

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	utiljson "k8s.io/apimachinery/pkg/util/json"
	"k8s.io/client-go/rest"
)

// DefaultBaseURL is the public Central API endpoint.
const DefaultBaseURL = "https://api.zerotier.com/api/v1"

// maxErrorBody bounds how much of a failed response is kept in an APIError.
const maxErrorBody = 4096

var (
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
)

// APIError is returned for any other non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Options configures the Central client.
type Options struct {
	// BaseURL is the API root (e.g., "https://api.zerotier.com/api/v1")
	BaseURL string

	// Token is the API access token sent as a bearer credential
	Token string

	// Timeout bounds a single request including reading the response body.
	// Zero means no client-side timeout.
	Timeout time.Duration

	// UserAgent is sent with every request
	UserAgent string

	// RequestsPerSecond limits the client-side request rate. A negative
	// value disables the limiter.
	RequestsPerSecond float64

	// Burst is the limiter's bucket size. With 1, consecutive calls are
	// spaced by 1/RequestsPerSecond.
	Burst int

	// Logger for the client
	Logger *zap.Logger
}

// DefaultOptions returns default options for the Central client.
func DefaultOptions() Options {
	return Options{
		BaseURL:           DefaultBaseURL,
		UserAgent:         "ztctl",
		RequestsPerSecond: 10,
		Burst:             1,
		Logger:            zap.NewNop(),
	}
}

// Client talks to the Central API.
type Client struct {
	opts    Options
	logger  *zap.Logger
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Central client. The token is required.
func New(opts Options) (*Client, error) {
	defaults := DefaultOptions()
	if opts.Logger == nil {
		opts.Logger = defaults.Logger
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if opts.Burst == 0 {
		opts.Burst = defaults.Burst
	}

	if opts.Token == "" {
		return nil, fmt.Errorf("API token is required")
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout %s: must not be negative", opts.Timeout)
	}
	if opts.Burst < 0 {
		return nil, fmt.Errorf("invalid burst %d: must be at least 1", opts.Burst)
	}

	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", opts.BaseURL)
	}

	httpClient, err := rest.HTTPClientFor(&rest.Config{
		BearerToken: opts.Token,
		UserAgent:   opts.UserAgent,
		Timeout:     opts.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP client: %w", err)
	}

	return &Client{
		opts:    opts,
		logger:  opts.Logger.Named("central"),
		baseURL: baseURL,
		http:    httpClient,
		limiter: newLimiter(opts.RequestsPerSecond, opts.Burst),
	}, nil
}

func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps < 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// GetStatus fetches the API status, including the authenticated user.
func (c *Client) GetStatus(ctx context.Context) (map[string]interface{}, error) {
	return c.getObject(ctx, "status")
}

// GetNetwork fetches a network.
func (c *Client) GetNetwork(ctx context.Context, networkID string) (map[string]interface{}, error) {
	return c.getObject(ctx, "network", networkID)
}

// ListMembers fetches every member of a network in server order.
func (c *Client) ListMembers(ctx context.Context, networkID string) ([]interface{}, error) {
	var out []interface{}
	if err := c.do(ctx, http.MethodGet, nil, &out, "network", networkID, "member"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []interface{}{}
	}
	return out, nil
}

// GetMember fetches a single network member.
func (c *Client) GetMember(ctx context.Context, networkID, memberID string) (map[string]interface{}, error) {
	return c.getObject(ctx, "network", networkID, "member", memberID)
}

// UpdateMember sends patch to the member update endpoint and returns the
// member as stored after the update.
func (c *Client) UpdateMember(ctx context.Context, networkID, memberID string, patch map[string]interface{}) (map[string]interface{}, error) {
	if patch == nil {
		patch = map[string]interface{}{}
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode member patch: %w", err)
	}

	var out map[string]interface{}
	if err := c.do(ctx, http.MethodPost, body, &out, "network", networkID, "member", memberID); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getObject(ctx context.Context, segments ...string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, nil, &out, segments...); err != nil {
		return nil, err
	}
	return out, nil
}

// do performs one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method string, body []byte, out interface{}, segments ...string) error {
	for _, s := range segments {
		if err := validSegment(s); err != nil {
			return err
		}
	}
	u := c.baseURL.JoinPath(segments...)
	path := u.Path

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(method, path, resp.StatusCode, msg)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}
	if err := utiljson.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// validSegment rejects ids that would change which endpoint a path names.
func validSegment(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("invalid id: must not be empty")
	case s == "." || s == "..":
		return fmt.Errorf("invalid id %q", s)
	case strings.ContainsAny(s, "/\\?#"):
		return fmt.Errorf("invalid id %q: must not contain '/', '\\', '?' or '#'", s)
	}
	return nil
}

func statusError(method, path string, code int, body []byte) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s %s: %w (HTTP %d)", method, path, ErrUnauthorized, code)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: code,
		Message:    string(bytes.TrimSpace(body)),
	}
}
