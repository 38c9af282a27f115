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

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/translateplus/translateplus-go/internal/apierrors"
)

// Default configuration values.
const (
	DefaultBaseURL       = "https://api.translateplus.io"
	DefaultTimeout       = 30 * time.Second
	DefaultMaxRetries    = 3
	DefaultMaxConcurrent = 5
	DefaultUserAgent     = "translateplus-go"
)

// Config holds the configuration for creating a new Client.
type Config struct {
	APIKey  string
	BaseURL string
	// UserAgent identifies the SDK in the User-Agent header.
	UserAgent string
	// HTTPClient replaces the default client. When set, Timeout is ignored.
	HTTPClient *http.Client
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after a transport failure.
	MaxRetries int
	// MaxConcurrent bounds the number of calls in flight at once.
	MaxConcurrent int
	Logger        *zerolog.Logger
}

// Client is the HTTP API client. It is safe for concurrent use.
type Client struct {
	baseURL       string
	apiKey        string
	userAgent     string
	httpClient    *http.Client
	maxRetries    int
	maxConcurrent int
	sem           *semaphore.Weighted
	backoff       Backoff
	logger        zerolog.Logger

	// wait is swapped in tests to observe backoff without sleeping.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient creates a new API client with the given configuration.
// Non-positive numeric values fall back to their defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &apierrors.ValidationError{
			Message: apierrors.ErrMissingAPIKey.Error(),
			Err:     apierrors.ErrMissingAPIKey,
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL:       baseURL,
		apiKey:        cfg.APIKey,
		userAgent:     userAgent,
		httpClient:    httpClient,
		maxRetries:    maxRetries,
		maxConcurrent: maxConcurrent,
		sem:           semaphore.NewWeighted(int64(maxConcurrent)),
		backoff:       DefaultBackoff(),
		logger:        logger.With().Str("component", "translateplus").Logger(),
		wait:          sleepContext,
	}, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// MaxRetries returns the configured retry count.
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// MaxConcurrent returns the size of the concurrency gate.
func (c *Client) MaxConcurrent() int {
	return c.maxConcurrent
}

// HTTPClient returns the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// URL joins path to the base URL with exactly one slash.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// Do performs the request and returns the decoded JSON object.
//
// The call waits for a slot in the concurrency gate before any network I/O
// and holds it across retries. Only transport failures are retried; any HTTP
// response ends the loop and is classified by status code.
func (c *Client) Do(ctx context.Context, req Request) (map[string]any, error) {
	newBody, err := prepareBody(req)
	if err != nil {
		return nil, err
	}

	target := c.URL(req.Path)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, interrupted(err)
	}
	defer c.sem.Release(1)

	log := c.logger.With().Str("method", req.Method).Str("path", req.Path).Logger()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		httpReq, err := c.newRequest(ctx, req.Method, target, newBody)
		if err != nil {
			return nil, &apierrors.APIError{Message: fmt.Sprintf("create request: %v", err), Err: err}
		}

		log.Debug().Int("attempt", attempt).Msg("sending request")

		status, data, err := c.exchange(httpReq)
		if err == nil {
			log.Debug().Int("attempt", attempt).Int("status", status).Msg("received response")
			return classify(status, data)
		}

		if ctx.Err() != nil {
			return nil, interrupted(ctx.Err())
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		delay := c.backoff.Delay(attempt)
		log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("transport failure, retrying")
		if err := c.wait(ctx, delay); err != nil {
			return nil, interrupted(err)
		}
	}

	log.Error().Err(lastErr).Int("retries", c.maxRetries).Msg("request failed")
	return nil, &apierrors.APIError{
		Message: fmt.Sprintf("request failed after %d retries: %v", c.maxRetries, lastErr),
		Err:     lastErr,
	}
}

func (c *Client) newRequest(ctx context.Context, method, target string, newBody bodyFunc) (*http.Request, error) {
	var body io.Reader
	var contentType string
	if newBody != nil {
		body, contentType = newBody()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		if closer, ok := body.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}

	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// exchange sends the request and reads the full response body. An error
// means no usable response arrived and the attempt may be retried.
func (c *Client) exchange(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func classify(status int, data []byte) (map[string]any, error) {
	if status >= 200 && status < 300 {
		return decodeSuccess(data)
	}
	message, body := parseErrorBody(status, data)
	return nil, apierrors.NewStatusError(status, message, body)
}

func decodeSuccess(data []byte) (map[string]any, error) {
	result := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// parseErrorBody derives the error message from a `detail` field when the
// body decodes as a JSON object. Undecodable bodies are tolerated.
func parseErrorBody(status int, data []byte) (string, map[string]any) {
	message := fmt.Sprintf("API request failed with status %d", status)

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		return message, nil
	}

	if detail, ok := body["detail"]; ok && detail != nil {
		message = detailString(detail)
	}
	return message, body
}

func detailString(detail any) string {
	if s, ok := detail.(string); ok {
		return s
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Sprint(detail)
	}
	return string(data)
}

func interrupted(err error) error {
	return &apierrors.APIError{Message: "request interrupted", Err: err}
}
