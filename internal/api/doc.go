// Package api provides HTTP client functionality for communicating with the
// TranslatePlus API. It handles authentication, request serialization,
// bounded concurrency and retries with exponential backoff for transport
// failures.
//
// # Client Creation
//
// [NewClient] takes a [Config]. Only the API key is required; every other
// field has a default (see [DefaultBaseURL], [DefaultTimeout],
// [DefaultMaxRetries] and [DefaultMaxConcurrent]). The API key is sent via
// the X-API-KEY header on every request.
//
// # Request Bodies
//
// A [Request] body is an ordered [Fields] list. It is encoded as a JSON
// object unless the request carries files, in which case the fields become
// plain multipart form values and each file is streamed as an
// application/octet-stream part. Missing files fail before any I/O.
//
// # Retry Behavior
//
// Only transport failures (connection errors, timeouts, truncated bodies)
// are retried. Any HTTP response, whatever its status, ends the retry loop.
// The wait after attempt n is 2^n seconds: 1s, 2s, 4s, ...
//
// # Concurrency
//
// Every call takes one slot of a weighted semaphore sized to
// MaxConcurrent before touching the network, holds it across retries, and
// releases it on return. A context cancelled while queued fails the call
// with a "request interrupted" error.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// methods on a single Client simultaneously.
package api
