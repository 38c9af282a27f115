// Package jobwatch polls asynchronous i18n jobs and reports status changes.
//
// A [Poller] tracks a set of job IDs. Each round it fetches the status of
// every tracked job, calls the handler when a status differs from the last
// one seen, and drops jobs that reached a terminal status.
//
// # Backoff
//
// Each job keeps its own interval. It starts at InitialInterval, grows by
// BackoffMultiplier after every poll without a change, up to MaxBackoff, and
// resets when the status changes. A random jitter of up to JitterFactor of
// the interval is added to each wait.
//
// # Thread Safety
//
// Poller is safe for concurrent use. Jobs can be added or removed while it
// is running.
package jobwatch
