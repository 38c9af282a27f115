// Package apierrors provides shared error types for the TranslatePlus client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrValidation matches every client-side precondition failure.
	ErrValidation = errors.New("validation failed")

	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrAPI matches every error produced by the API dispatcher.
	ErrAPI = errors.New("API request failed")

	// ErrAuthentication is returned for 401 and 403 responses.
	ErrAuthentication = errors.New("authentication failed")

	// ErrInsufficientCredits is returned for 402 responses.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Kind identifies which variant of API failure an APIError carries.
type Kind int

const (
	// KindAPI is any failure without a more specific kind: other non-2xx
	// statuses, exhausted retries and interrupted calls.
	KindAPI Kind = iota
	// KindAuthentication is a 401 or 403 response.
	KindAuthentication
	// KindInsufficientCredits is a 402 response.
	KindInsufficientCredits
	// KindRateLimit is a 429 response.
	KindRateLimit
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindInsufficientCredits:
		return "insufficient_credits"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "api"
	}
}

// KindForStatus maps an HTTP status code to its error kind.
func KindForStatus(statusCode int) Kind {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthentication
	case http.StatusPaymentRequired:
		return KindInsufficientCredits
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindAPI
	}
}

// ValidationError is a client-side precondition failure. It is raised
// before any network I/O.
type ValidationError struct {
	Message string
	Err     error
}

// NewValidationError returns a ValidationError with a formatted message
// wrapping err, which may be nil.
func NewValidationError(err error, format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TranslatePlusError implements the root error interface.
func (e *ValidationError) TranslatePlusError() {}

// APIError represents a failed call to the TranslatePlus API.
//
// StatusCode is zero when no response was received, i.e. when retries were
// exhausted on transport failures or the call was interrupted.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Response   map[string]any
	Err        error
}

// NewStatusError builds the APIError for a non-2xx response.
func NewStatusError(statusCode int, message string, response map[string]any) *APIError {
	return &APIError{
		Kind:       KindForStatus(statusCode),
		StatusCode: statusCode,
		Message:    message,
		Response:   response,
	}
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return ErrAPI.Error()
}

// Unwrap returns the underlying error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAPI:
		return true
	case ErrAuthentication:
		return e.Kind == KindAuthentication
	case ErrInsufficientCredits:
		return e.Kind == KindInsufficientCredits
	case ErrRateLimited:
		return e.Kind == KindRateLimit
	}
	return false
}

// TranslatePlusError implements the root error interface.
func (e *APIError) TranslatePlusError() {}
