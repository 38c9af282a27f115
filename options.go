package translateplus

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/translateplus/translateplus-go/internal/api"
)

// Default configuration values.
const (
	DefaultBaseURL       = api.DefaultBaseURL
	DefaultTimeout       = api.DefaultTimeout
	DefaultMaxRetries    = api.DefaultMaxRetries
	DefaultMaxConcurrent = api.DefaultMaxConcurrent
)

const (
	defaultJobPollInterval = 5 * time.Second
	defaultJobWaitTimeout  = 10 * time.Minute
)

// Config holds the client configuration. Zero values select the defaults:
// DefaultBaseURL, a 30 second per-attempt timeout, 3 retries and 5
// concurrent requests.
type Config struct {
	// APIKey is required.
	APIKey string
	// BaseURL of the API. A trailing slash is stripped.
	BaseURL string
	// Timeout bounds each HTTP attempt (connect, write and read).
	Timeout time.Duration
	// MaxRetries is the number of retries after a transport failure.
	MaxRetries int
	// MaxConcurrent bounds how many requests may be in flight at once.
	MaxConcurrent int
	// HTTPClient replaces the default client. Timeout is then ignored.
	HTTPClient *http.Client
	// Logger receives request diagnostics. Nil disables logging.
	Logger *zerolog.Logger
}

// Option configures the client.
type Option func(*Config)

// WaitOption configures WaitForI18nJob.
type WaitOption func(*waitConfig)

// I18nJobOption configures CreateI18nJob.
type I18nJobOption func(*i18nJobConfig)

// waitConfig holds configuration for waiting on an i18n job.
type waitConfig struct {
	pollInterval time.Duration
	timeout      time.Duration
}

// i18nJobConfig holds the optional fields of an i18n job upload.
type i18nJobConfig struct {
	sourceLanguage string
	webhookURL     string
}

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the number of retries after transport failures.
func WithRetries(count int) Option {
	return func(c *Config) {
		c.MaxRetries = count
	}
}

// WithMaxConcurrent sets how many requests may be in flight at once.
func WithMaxConcurrent(n int) Option {
	return func(c *Config) {
		c.MaxConcurrent = n
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &logger
	}
}

// WithSourceLanguage sets the source language of an i18n job.
// Default: "auto"
func WithSourceLanguage(code string) I18nJobOption {
	return func(c *i18nJobConfig) {
		c.sourceLanguage = code
	}
}

// WithWebhookURL asks the service to call url when the job finishes.
func WithWebhookURL(url string) I18nJobOption {
	return func(c *i18nJobConfig) {
		c.webhookURL = url
	}
}

// WithPollInterval sets the interval between job status checks.
// Default: 5 seconds
func WithPollInterval(interval time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.pollInterval = interval
	}
}

// WithWaitTimeout sets how long WaitForI18nJob waits overall.
// Default: 10 minutes
func WithWaitTimeout(timeout time.Duration) WaitOption {
	return func(c *waitConfig) {
		c.timeout = timeout
	}
}
