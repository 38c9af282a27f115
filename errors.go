package translateplus

import (
	"github.com/translateplus/translateplus-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrValidation matches every client-side validation failure.
	ErrValidation = apierrors.ErrValidation

	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = apierrors.ErrMissingAPIKey

	// ErrAPI matches every error returned for a failed API call, including
	// the more specific authentication, credit and rate-limit failures.
	ErrAPI = apierrors.ErrAPI

	// ErrAuthentication is returned when the API key is rejected (401, 403).
	ErrAuthentication = apierrors.ErrAuthentication

	// ErrInsufficientCredits is returned when the account is out of credits (402).
	ErrInsufficientCredits = apierrors.ErrInsufficientCredits

	// ErrRateLimited is returned when the API rate limit is exceeded (429).
	ErrRateLimited = apierrors.ErrRateLimited
)

// Error is implemented by all SDK errors.
type Error interface {
	error
	TranslatePlusError() // marker method
}

// ValidationError is a client-side precondition failure. No request was sent.
type ValidationError = apierrors.ValidationError

// APIError is a failed API call. Kind tells which variant it is; StatusCode
// is zero when no response was received.
type APIError = apierrors.APIError

// ErrorKind identifies the variant of an APIError.
type ErrorKind = apierrors.Kind

// APIError kinds.
const (
	// KindAPI covers other non-2xx statuses, exhausted retries and
	// interrupted calls.
	KindAPI = apierrors.KindAPI
	// KindAuthentication is a 401 or 403 response.
	KindAuthentication = apierrors.KindAuthentication
	// KindInsufficientCredits is a 402 response.
	KindInsufficientCredits = apierrors.KindInsufficientCredits
	// KindRateLimit is a 429 response.
	KindRateLimit = apierrors.KindRateLimit
)

var (
	_ Error = (*ValidationError)(nil)
	_ Error = (*APIError)(nil)
)
