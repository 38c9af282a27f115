package translateplus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/translateplus/translateplus-go/internal/api"
)

// Default paging for ListI18nJobs.
const (
	DefaultJobsPage     = 1
	DefaultJobsPageSize = 10
)

// Job statuses reported by the i18n endpoints.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusError      = "error"
	JobStatusCancelled  = "cancelled"
)

// IsTerminalJobStatus reports whether status is final.
func IsTerminalJobStatus(status string) bool {
	switch strings.ToLower(status) {
	case JobStatusCompleted, JobStatusFailed, JobStatusError, JobStatusCancelled, "canceled":
		return true
	}
	return false
}

// JobStatus extracts the status of a job from an i18n response. Both a
// top-level "status" and one nested under "job" are recognized.
func JobStatus(r Result) string {
	if s := r.String("status"); s != "" {
		return s
	}
	return r.Map("job").String("status")
}

// CreateI18nJob uploads a localization file and starts translating it into
// each of targets. The file is streamed; it is never read fully into memory.
func (c *Client) CreateI18nJob(ctx context.Context, filePath string, targets []string, opts ...I18nJobOption) (Result, error) {
	if err := validateI18nJob(filePath, targets); err != nil {
		return nil, err
	}

	cfg := &i18nJobConfig{sourceLanguage: AutoDetect}
	for _, opt := range opts {
		opt(cfg)
	}

	return result(c.apiClient.CreateI18nJob(ctx, api.CreateI18nJobRequest{
		FilePath:        filePath,
		TargetLanguages: targets,
		SourceLanguage:  cfg.sourceLanguage,
		WebhookURL:      cfg.webhookURL,
	}))
}

// I18nJobStatus returns the current state of an i18n job.
func (c *Client) I18nJobStatus(ctx context.Context, jobID string) (Result, error) {
	if err := validateJobID(strings.TrimSpace(jobID)); err != nil {
		return nil, err
	}
	return result(c.apiClient.GetI18nJob(ctx, jobID))
}

// ListI18nJobs lists i18n jobs. Non-positive page or pageSize select
// DefaultJobsPage and DefaultJobsPageSize.
func (c *Client) ListI18nJobs(ctx context.Context, page, pageSize int) (Result, error) {
	if page <= 0 {
		page = DefaultJobsPage
	}
	if pageSize <= 0 {
		pageSize = DefaultJobsPageSize
	}
	return result(c.apiClient.ListI18nJobs(ctx, page, pageSize))
}

// WaitForI18nJob polls the job until it reaches a terminal status and
// returns the last status response. A failed job is not an error; inspect
// JobStatus of the result.
func (c *Client) WaitForI18nJob(ctx context.Context, jobID string, opts ...WaitOption) (Result, error) {
	if err := validateJobID(strings.TrimSpace(jobID)); err != nil {
		return nil, err
	}

	cfg := &waitConfig{
		pollInterval: defaultJobPollInterval,
		timeout:      defaultJobWaitTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pollInterval <= 0 {
		cfg.pollInterval = defaultJobPollInterval
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultJobWaitTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	ticker := time.NewTicker(cfg.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.I18nJobStatus(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("wait for job %s: %w", jobID, err)
		}
		if IsTerminalJobStatus(JobStatus(status)) {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}
