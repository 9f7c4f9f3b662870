// Package client implements dexplore.MetadataService over the discovery
// server's REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vvka-141/dexplore/internal/logging"
	"github.com/vvka-141/dexplore/pkg/dexplore"
)

const (
	metadataPath     = "/api/metadatas"
	listProjection   = "forListView"
	listSort         = "createdTime,desc"
	maxErrorBodySize = 4 << 10
)

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("metadata service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("metadata service returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), body)
}

// Unwrap maps the status to a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return dexplore.ErrUnauthorized
	case e.StatusCode >= 500:
		return dexplore.ErrServiceUnavailable
	}
	return nil
}

// Option configures a Client.
type Option func(*Client)

// WithAuthenticator sets the request authenticator.
func WithAuthenticator(a Authenticator) Option {
	return func(c *Client) {
		if a != nil {
			c.auth = a
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l dexplore.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client talks to the metadata endpoints of a discovery server.
type Client struct {
	base   *url.URL
	http   *http.Client
	auth   Authenticator
	logger dexplore.Logger
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("server URL is required: %w", dexplore.ErrInvalidConfig)
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, dexplore.ErrInvalidConfig)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must use http or https: %w", baseURL, dexplore.ErrInvalidConfig)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: dexplore.DefaultHTTPTimeout},
		auth:   NoAuth{},
		logger: logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListURL returns the request URL for params.
func (c *Client) ListURL(params dexplore.ListParams) string {
	q := params.Values()
	q.Set("projection", listProjection)
	q.Set("sort", listSort)

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + metadataPath
	u.RawQuery = q.Encode()
	return u.String()
}

// GetMetadataList implements dexplore.MetadataService.
func (c *Client) GetMetadataList(ctx context.Context, params dexplore.ListParams) (*dexplore.MetadataListResult, error) {
	target := c.ListURL(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create metadata request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.auth.Apply(req)

	c.logger.Verbose("GET %s", target)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("request metadata list: %w: %w", dexplore.ErrServiceUnavailable, err)
	}

	var result dexplore.MetadataListResult
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode metadata list: %w", err)
	}
	return nil
}

var _ dexplore.MetadataService = (*Client)(nil)
