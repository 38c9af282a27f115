package api

import (
	"context"
	"math"
	"time"
)

// DefaultBackoffBase is the delay before the first retry. Each following
// retry doubles it.
const DefaultBackoffBase = time.Second

const maxDelay = time.Duration(math.MaxInt64)

// Backoff computes the delay between transport-failure retries. Delays grow
// as Base * 2^attempt with no jitter, saturating at the largest Duration.
type Backoff struct {
	Base time.Duration
}

// DefaultBackoff returns the backoff used by the dispatcher: 1s, 2s, 4s, ...
func DefaultBackoff() Backoff {
	return Backoff{Base: DefaultBackoffBase}
}

// Delay returns the wait after the zero-based attempt that just failed.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if b.Base <= 0 {
		return 0
	}
	// Saturate instead of overflowing.
	if attempt >= 63 || b.Base > maxDelay>>uint(attempt) {
		return maxDelay
	}
	return b.Base * time.Duration(int64(1)<<uint(attempt))
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
