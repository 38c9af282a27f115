package jobwatch

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Default polling configuration values.
const (
	DefaultInitialInterval   = 2 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 1.5
	DefaultJitterFactor      = 0.3
	DefaultMaxParallel       = 4
)

// ErrAlreadyStarted is returned when Start is called on a running Poller.
var ErrAlreadyStarted = errors.New("poller already started")

// Fetcher returns the current status of a job and the full response.
type Fetcher func(ctx context.Context, jobID string) (status string, body map[string]any, err error)

// Event is a status change, or a failed status check when Err is set.
type Event struct {
	JobID    string
	Status   string
	Body     map[string]any
	Terminal bool
	Err      error
}

// Handler is called for each Event, from the polling goroutine.
type Handler func(Event)

// Config configures a Poller.
type Config struct {
	// Fetch is required.
	Fetch Fetcher

	// IsTerminal reports whether a status is final. Nil means no status is.
	IsTerminal func(status string) bool

	// InitialInterval is the starting interval between polls of a job.
	// If zero, defaults to DefaultInitialInterval.
	InitialInterval time.Duration

	// MaxBackoff is the maximum interval between polls.
	// If zero, defaults to DefaultMaxBackoff.
	MaxBackoff time.Duration

	// BackoffMultiplier is the factor by which the interval increases
	// after each poll with no change.
	// If zero, defaults to DefaultBackoffMultiplier.
	BackoffMultiplier float64

	// JitterFactor is the maximum random jitter added to intervals, as a
	// fraction of the interval. If zero, defaults to DefaultJitterFactor.
	JitterFactor float64

	// MaxParallel bounds the status checks run at once in a round.
	// If zero, defaults to DefaultMaxParallel.
	MaxParallel int
}

func (c *Config) applyDefaults() {
	if c.InitialInterval <= 0 {
		c.InitialInterval = DefaultInitialInterval
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = DefaultMaxBackoff
	}
	if c.MaxBackoff < c.InitialInterval {
		c.MaxBackoff = c.InitialInterval
	}
	if c.BackoffMultiplier <= 0 {
		c.BackoffMultiplier = DefaultBackoffMultiplier
	}
	if c.JitterFactor <= 0 {
		c.JitterFactor = DefaultJitterFactor
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	if c.IsTerminal == nil {
		c.IsTerminal = func(string) bool { return false }
	}
}

// Poller polls a set of jobs with per-job adaptive backoff.
type Poller struct {
	cfg     Config
	jobs    map[string]*polledJob
	handler Handler
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	started bool

	// jitter returns a value in [0, 1). Swapped in tests.
	jitter func() float64
}

type polledJob struct {
	id         string
	lastStatus string
	interval   time.Duration
	next       time.Time
}

// NewPoller creates a Poller. It does not poll until Start is called.
func NewPoller(cfg Config) *Poller {
	cfg.applyDefaults()
	return &Poller{
		cfg:    cfg,
		jobs:   make(map[string]*polledJob),
		jitter: rand.Float64,
	}
}

// Start begins polling the given jobs in a background goroutine. The
// handler is called for each status change until Stop is called, ctx is
// done, or no tracked job remains. Jobs added after polling ended are
// never polled.
func (p *Poller) Start(ctx context.Context, jobIDs []string, handler Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyStarted
	}

	for _, id := range jobIDs {
		p.addLocked(id)
	}
	p.handler = handler
	p.started = true
	p.done = make(chan struct{})

	ctx, p.cancel = context.WithCancel(ctx)
	go p.pollLoop(ctx, p.done)
	return nil
}

// Stop stops polling and waits for the polling goroutine to exit. No
// handler call starts after Stop returns. Stop is idempotent and must not
// be called from the handler.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.started = false
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Done is closed when polling ends. It is nil before Start.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Add starts tracking a job. Adding a tracked job is a no-op.
func (p *Poller) Add(jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addLocked(jobID)
}

func (p *Poller) addLocked(jobID string) {
	if _, ok := p.jobs[jobID]; ok {
		return
	}
	p.jobs[jobID] = &polledJob{id: jobID, interval: p.cfg.InitialInterval}
}

// Remove stops tracking a job.
func (p *Poller) Remove(jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.jobs, jobID)
}

// Len returns the number of tracked jobs.
func (p *Poller) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

func (p *Poller) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		wait, remaining := p.pollDue(ctx)
		if remaining == 0 || ctx.Err() != nil {
			return
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// pollDue polls every job whose next poll time has passed and returns the
// wait until the next one is due and the number of jobs still tracked.
func (p *Poller) pollDue(ctx context.Context) (time.Duration, int) {
	now := time.Now()

	p.mu.Lock()
	due := make([]*polledJob, 0, len(p.jobs))
	for _, job := range p.jobs {
		if !job.next.After(now) {
			due = append(due, job)
		}
	}
	handler := p.handler
	p.mu.Unlock()

	events := make([]Event, len(due))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxParallel)
	for i, job := range due {
		g.Go(func() error {
			events[i] = p.pollJob(gctx, job)
			return nil
		})
	}
	_ = g.Wait()

	for _, ev := range events {
		if ctx.Err() != nil {
			break
		}
		if ev.JobID == "" {
			continue
		}
		if ev.Terminal {
			p.Remove(ev.JobID)
		}
		if handler != nil {
			handler(ev)
		}
	}

	return p.nextWait()
}

// pollJob checks one job and updates its interval. It returns an Event
// for a change or an error, and a zero Event otherwise.
func (p *Poller) pollJob(ctx context.Context, job *polledJob) Event {
	status, body, err := p.cfg.Fetch(ctx, job.id)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return Event{}
		}
		p.backoffLocked(job)
		return Event{JobID: job.id, Err: err}
	}

	if status == job.lastStatus {
		p.backoffLocked(job)
		return Event{}
	}

	job.lastStatus = status
	job.interval = p.cfg.InitialInterval
	job.next = time.Now().Add(p.waitDuration(job.interval))
	return Event{
		JobID:    job.id,
		Status:   status,
		Body:     body,
		Terminal: p.cfg.IsTerminal(status),
	}
}

func (p *Poller) backoffLocked(job *polledJob) {
	job.interval = min(time.Duration(float64(job.interval)*p.cfg.BackoffMultiplier), p.cfg.MaxBackoff)
	job.next = time.Now().Add(p.waitDuration(job.interval))
}

// nextWait returns the time until the earliest next poll.
func (p *Poller) nextWait() (time.Duration, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.jobs) == 0 {
		return 0, 0
	}

	var earliest time.Time
	for _, job := range p.jobs {
		if earliest.IsZero() || job.next.Before(earliest) {
			earliest = job.next
		}
	}
	return max(time.Until(earliest), 0), len(p.jobs)
}

// waitDuration adds jitter to prevent thundering herd.
func (p *Poller) waitDuration(interval time.Duration) time.Duration {
	return interval + time.Duration(p.jitter()*p.cfg.JitterFactor*float64(interval))
}
