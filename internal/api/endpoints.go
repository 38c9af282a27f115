package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// API paths relative to the base URL.
const (
	PathTranslate          = "/v2/translate"
	PathTranslateBatch     = "/v2/translate/batch"
	PathTranslateHTML      = "/v2/translate/html"
	PathTranslateEmail     = "/v2/translate/email"
	PathTranslateSubtitles = "/v2/translate/subtitles"
	PathLanguageDetect     = "/v2/language_detect"
	PathSupportedLanguages = "/v2/supported_languages"
	PathAccountSummary     = "/v2/account/summary"
	PathI18nCreateJob      = "/v2/i18n/create_job"
	PathI18nJob            = "/v2/i18n/job/"
	PathI18nJobs           = "/v2/i18n/jobs"
)

// AutoDetect lets the service detect the source language.
const AutoDetect = "auto"

func sourceOrAuto(source string) string {
	if source == "" {
		return AutoDetect
	}
	return source
}

// Translate calls POST /v2/translate.
func (c *Client) Translate(ctx context.Context, text, source, target string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathTranslate,
		Body: Fields{
			{"text", text},
			{"source", sourceOrAuto(source)},
			{"target", target},
		},
	})
}

// TranslateBatch calls POST /v2/translate/batch.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, source, target string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathTranslateBatch,
		Body: Fields{
			{"texts", texts},
			{"source", sourceOrAuto(source)},
			{"target", target},
		},
	})
}

// TranslateHTML calls POST /v2/translate/html.
func (c *Client) TranslateHTML(ctx context.Context, html, source, target string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathTranslateHTML,
		Body: Fields{
			{"html", html},
			{"source", sourceOrAuto(source)},
			{"target", target},
		},
	})
}

// TranslateEmail calls POST /v2/translate/email.
func (c *Client) TranslateEmail(ctx context.Context, subject, emailBody, source, target string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathTranslateEmail,
		Body: Fields{
			{"subject", subject},
			{"email_body", emailBody},
			{"source", sourceOrAuto(source)},
			{"target", target},
		},
	})
}

// TranslateSubtitles calls POST /v2/translate/subtitles.
func (c *Client) TranslateSubtitles(ctx context.Context, content, format, source, target string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathTranslateSubtitles,
		Body: Fields{
			{"content", content},
			{"format", format},
			{"source", sourceOrAuto(source)},
			{"target", target},
		},
	})
}

// DetectLanguage calls POST /v2/language_detect.
func (c *Client) DetectLanguage(ctx context.Context, text string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathLanguageDetect,
		Body:   Fields{{"text", text}},
	})
}

// SupportedLanguages calls GET /v2/supported_languages.
func (c *Client) SupportedLanguages(ctx context.Context) (map[string]any, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: PathSupportedLanguages})
}

// AccountSummary calls GET /v2/account/summary.
func (c *Client) AccountSummary(ctx context.Context) (map[string]any, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: PathAccountSummary})
}

// CreateI18nJobRequest holds the form values of an i18n job upload.
type CreateI18nJobRequest struct {
	FilePath        string
	TargetLanguages []string
	SourceLanguage  string
	WebhookURL      string
}

// CreateI18nJob calls POST /v2/i18n/create_job as a multipart upload.
func (c *Client) CreateI18nJob(ctx context.Context, req CreateI18nJobRequest) (map[string]any, error) {
	form := Fields{
		{"source_language", sourceOrAuto(req.SourceLanguage)},
		{"target_languages", strings.Join(req.TargetLanguages, ",")},
	}
	if req.WebhookURL != "" {
		form = append(form, Field{"webhook_url", req.WebhookURL})
	}

	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathI18nCreateJob,
		Body:   form,
		Files:  map[string]string{"file": req.FilePath},
	})
}

// GetI18nJob calls GET /v2/i18n/job/{jobID}.
func (c *Client) GetI18nJob(ctx context.Context, jobID string) (map[string]any, error) {
	return c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   PathI18nJob + url.PathEscape(jobID),
	})
}

// ListI18nJobs calls GET /v2/i18n/jobs.
func (c *Client) ListI18nJobs(ctx context.Context, page, pageSize int) (map[string]any, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))

	return c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   PathI18nJobs,
		Query:  query,
	})
}
