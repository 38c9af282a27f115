package translateplus

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/translateplus/translateplus-go/internal/jobwatch"
)

// Subscription represents an active subscription that can be unsubscribed.
type Subscription interface {
	// Unsubscribe stops the subscription and releases resources.
	Unsubscribe()
}

// JobUpdate is a change in the status of a monitored i18n job. When Err is
// set the status check failed and Status and Result are empty; polling of
// that job continues.
type JobUpdate struct {
	JobID    string
	Status   string
	Result   Result
	Terminal bool
	Err      error
}

// JobCallback is called when a monitored job changes status.
type JobCallback func(update JobUpdate)

// MonitorOption configures a JobMonitor.
type MonitorOption func(*jobwatch.Config)

// WithMonitorInterval sets the initial interval between status checks of a job.
// Default: 2 seconds
func WithMonitorInterval(interval time.Duration) MonitorOption {
	return func(c *jobwatch.Config) {
		c.InitialInterval = interval
	}
}

// WithMonitorMaxInterval caps the interval between status checks of a job
// whose status is not changing.
// Default: 30 seconds
func WithMonitorMaxInterval(interval time.Duration) MonitorOption {
	return func(c *jobwatch.Config) {
		c.MaxBackoff = interval
	}
}

// JobMonitor watches multiple i18n jobs and reports status changes.
//
// Each job is polled on its own schedule. The interval grows while the
// status is unchanged and resets when it changes. A job is dropped once it
// reaches a terminal status; the monitor stops when no jobs remain.
type JobMonitor struct {
	client    *Client
	poller    *jobwatch.Poller
	jobIDs    []string
	callbacks []JobCallback
	mu        sync.RWMutex
	started   bool
}

// internalSubscription implements the Subscription interface.
type internalSubscription struct {
	cancel func()
}

func (s *internalSubscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

// MonitorI18nJobs creates a monitor for the given jobs. Polling starts with
// the first OnUpdate call.
func (c *Client) MonitorI18nJobs(jobIDs []string, opts ...MonitorOption) (*JobMonitor, error) {
	for _, id := range jobIDs {
		if err := validateJobID(strings.TrimSpace(id)); err != nil {
			return nil, err
		}
	}

	m := &JobMonitor{
		client: c,
		jobIDs: append([]string(nil), jobIDs...),
	}

	cfg := jobwatch.Config{
		Fetch:       m.fetch,
		IsTerminal:  IsTerminalJobStatus,
		MaxParallel: c.cfg.MaxConcurrent,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	m.poller = jobwatch.NewPoller(cfg)
	return m, nil
}

func (m *JobMonitor) fetch(ctx context.Context, jobID string) (string, map[string]any, error) {
	res, err := m.client.I18nJobStatus(ctx, jobID)
	if err != nil {
		return "", nil, err
	}
	return JobStatus(res), res, nil
}

// OnUpdate registers a callback to be called when any monitored job changes
// status. Returns a Subscription that can be used to unsubscribe this
// specific callback.
func (m *JobMonitor) OnUpdate(callback JobCallback) Subscription {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, callback)
	callbackIndex := len(m.callbacks) - 1
	m.mu.Unlock()

	// Start monitoring if not already started
	m.startMonitoring()

	return &internalSubscription{
		cancel: func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			// Mark this callback as nil (don't remove to preserve indices)
			if callbackIndex < len(m.callbacks) {
				m.callbacks[callbackIndex] = nil
			}
		},
	}
}

// Add starts monitoring another job.
func (m *JobMonitor) Add(jobID string) error {
	if err := validateJobID(strings.TrimSpace(jobID)); err != nil {
		return err
	}
	m.poller.Add(jobID)
	return nil
}

// Done is closed when monitoring ends: every job reached a terminal status
// or Unsubscribe was called. It is nil before the first OnUpdate.
func (m *JobMonitor) Done() <-chan struct{} {
	return m.poller.Done()
}

// Unsubscribe stops monitoring all jobs and releases all resources.
func (m *JobMonitor) Unsubscribe() {
	m.poller.Stop()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = nil
	m.started = false
}

// startMonitoring begins the monitoring process if not already started.
func (m *JobMonitor) startMonitoring() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	_ = m.poller.Start(context.Background(), m.jobIDs, m.emit)
}

// emit calls all registered callbacks with the update.
func (m *JobMonitor) emit(ev jobwatch.Event) {
	update := JobUpdate{
		JobID:    ev.JobID,
		Status:   ev.Status,
		Result:   ev.Body,
		Terminal: ev.Terminal,
		Err:      ev.Err,
	}

	m.mu.RLock()
	callbacks := make([]JobCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.RUnlock()

	// Low volume expected; spawning per-update is fine.
	for _, callback := range callbacks {
		if callback != nil {
			go callback(update)
		}
	}
}
