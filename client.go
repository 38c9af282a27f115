package translateplus

import (
	"context"

	"github.com/translateplus/translateplus-go/internal/api"
	"github.com/translateplus/translateplus-go/internal/apierrors"
)

// Version is the SDK release reported in the User-Agent header.
const Version = "2.0.0"

// MaxBatchSize is the largest number of texts TranslateBatch accepts.
const MaxBatchSize = 100

// Subtitle formats accepted by TranslateSubtitles.
const (
	FormatSRT = "srt"
	FormatVTT = "vtt"
)

// AutoDetect lets the service detect the source language.
const AutoDetect = api.AutoDetect

// Client is the TranslatePlus client. It is safe for concurrent use; the
// number of requests in flight is bounded by Config.MaxConcurrent.
type Client struct {
	apiClient *api.Client
	cfg       Config
}

// New creates a new TranslatePlus client with the given API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{APIKey: apiKey}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// NewClient creates a new TranslatePlus client from cfg.
// Non-positive numeric values fall back to their defaults.
func NewClient(cfg Config) (*Client, error) {
	apiClient, err := api.NewClient(api.Config{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		UserAgent:     api.DefaultUserAgent + "/" + Version,
		HTTPClient:    cfg.HTTPClient,
		Timeout:       cfg.Timeout,
		MaxRetries:    cfg.MaxRetries,
		MaxConcurrent: cfg.MaxConcurrent,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = apiClient.BaseURL()
	cfg.MaxRetries = apiClient.MaxRetries()
	cfg.MaxConcurrent = apiClient.MaxConcurrent()
	cfg.HTTPClient = apiClient.HTTPClient()

	return &Client{apiClient: apiClient, cfg: cfg}, nil
}

// Config returns the effective configuration, with defaults applied.
func (c *Client) Config() Config {
	return c.cfg
}

// Translate translates text from source to target. An empty source
// means AutoDetect.
func (c *Client) Translate(ctx context.Context, text, source, target string) (Result, error) {
	return result(c.apiClient.Translate(ctx, text, source, target))
}

// TranslateBatch translates between 1 and MaxBatchSize texts in one request.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, source, target string) (Result, error) {
	if err := validateBatch(texts); err != nil {
		return nil, err
	}
	return result(c.apiClient.TranslateBatch(ctx, texts, source, target))
}

// TranslateHTML translates the text content of an HTML document, keeping
// its markup.
func (c *Client) TranslateHTML(ctx context.Context, html, source, target string) (Result, error) {
	return result(c.apiClient.TranslateHTML(ctx, html, source, target))
}

// TranslateEmail translates an email subject and body.
func (c *Client) TranslateEmail(ctx context.Context, subject, body, source, target string) (Result, error) {
	return result(c.apiClient.TranslateEmail(ctx, subject, body, source, target))
}

// TranslateSubtitles translates subtitle content in FormatSRT or FormatVTT.
func (c *Client) TranslateSubtitles(ctx context.Context, content, format, source, target string) (Result, error) {
	if err := validateSubtitleFormat(format); err != nil {
		return nil, err
	}
	return result(c.apiClient.TranslateSubtitles(ctx, content, format, source, target))
}

// DetectLanguage detects the language of text.
func (c *Client) DetectLanguage(ctx context.Context, text string) (Result, error) {
	return result(c.apiClient.DetectLanguage(ctx, text))
}

// SupportedLanguages lists the languages the service supports.
func (c *Client) SupportedLanguages(ctx context.Context) (Result, error) {
	return result(c.apiClient.SupportedLanguages(ctx))
}

// AccountSummary returns the account's plan and credit balance.
func (c *Client) AccountSummary(ctx context.Context) (Result, error) {
	return result(c.apiClient.AccountSummary(ctx))
}

func result(m map[string]any, err error) (Result, error) {
	if err != nil {
		return nil, err
	}
	return Result(m), nil
}

// toValidationError turns an ozzo-validation failure into a ValidationError
// carrying the rule's message.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &apierrors.ValidationError{Message: err.Error(), Err: err}
}
