// Package mapbox provides the API client used by every tool. All requests
// flow through a per-client request pipeline; tools never deal with retry,
// rate limiting or header injection directly.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mapgrid/mapmcp/pkg/config"
	"github.com/mapgrid/mapmcp/pkg/pipeline"
)

const (
	// DefaultBaseURL is the Mapbox API root.
	DefaultBaseURL = "https://api.mapbox.com"

	// DefaultUserAgent identifies this server to the Mapbox APIs.
	DefaultUserAgent = "mapmcp/0.2.0"
)

// Client is a Mapbox API client. Each client owns its own pipeline, so
// isolated clients can be constructed in tests without cross-test
// interference.
type Client struct {
	pipe    *pipeline.Pipeline
	baseURL string
	token   string
	logger  *slog.Logger
}

// NewClient builds a client whose pipeline carries the standard policy
// chain: tracing (outermost, one span per logical call), user-agent, retry,
// and per-host rate limiting (innermost, inside the retry loop, so every
// attempt — including retries after a 429 — waits on the limiter).
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	pipe := pipeline.New(nil,
		pipeline.NewTracePolicy(),
		pipeline.NewUserAgentPolicy(ua),
		pipeline.NewRetryPolicy(cfg.Retry.MaxRetries, cfg.Retry.InitialDelay(), cfg.Retry.MaxDelay()),
		pipeline.NewRateLimitPolicy(cfg.Rate.RPS, cfg.Rate.Burst),
	)

	return &Client{
		pipe:    pipe,
		baseURL: DefaultBaseURL,
		token:   cfg.Token,
		logger:  logger,
	}
}

// NewClientWithPipeline builds a client around an existing pipeline and base
// URL. Used by tests to point tools at a stub server.
func NewClientWithPipeline(pipe *pipeline.Pipeline, baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		pipe:    pipe,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// Pipeline exposes the client's pipeline for policy management.
func (c *Client) Pipeline() *pipeline.Pipeline { return c.pipe }

// Get performs a GET against path with the given query parameters, adding
// the access token.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", c.token)

	reqURL := c.baseURL + path + "?" + query.Encode()
	return c.pipe.Execute(ctx, reqURL, pipeline.Options{})
}

// GetJSON performs a GET and decodes the 200 response body into v. Non-200
// statuses become a *StatusError carrying the API's error message.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v interface{}) error {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newStatusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is a non-200 API response that survived the retry policy:
// either a caller error or an exhausted transient condition.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("mapbox API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("mapbox API error (%d)", e.StatusCode)
}

// newStatusError extracts the Mapbox error message from a failed response.
func newStatusError(resp *http.Response) *StatusError {
	e := &StatusError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return e
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		e.Message = payload.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}
