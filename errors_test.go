package translateplus

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorInterface(t *testing.T) {
	errs := []struct {
		name string
		err  Error
	}{
		{"ValidationError", &ValidationError{Message: "bad"}},
		{"APIError", &APIError{StatusCode: 500}},
	}

	for _, e := range errs {
		t.Run(e.name, func(t *testing.T) {
			// Verify it implements error interface
			_ = e.err.Error()
			// Verify marker method exists
			e.err.TranslatePlusError()
		})
	}
}

func TestAPIError_Sentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		sentinel error
		want     bool
	}{
		{"auth matches ErrAuthentication", &APIError{Kind: KindAuthentication, StatusCode: 401}, ErrAuthentication, true},
		{"auth matches ErrAPI", &APIError{Kind: KindAuthentication, StatusCode: 403}, ErrAPI, true},
		{"credits matches ErrInsufficientCredits", &APIError{Kind: KindInsufficientCredits, StatusCode: 402}, ErrInsufficientCredits, true},
		{"rate limit matches ErrRateLimited", &APIError{Kind: KindRateLimit, StatusCode: 429}, ErrRateLimited, true},
		{"generic does not match ErrRateLimited", &APIError{Kind: KindAPI, StatusCode: 500}, ErrRateLimited, false},
		{"API error is not a validation error", &APIError{Kind: KindAPI}, ErrValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestValidationError_WrappedAs(t *testing.T) {
	wrapped := fmt.Errorf("translate batch: %w", &ValidationError{Message: "Texts list cannot be empty"})

	var ve *ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("errors.As should find the ValidationError")
	}
	if ve.Message != "Texts list cannot be empty" {
		t.Errorf("Message = %q", ve.Message)
	}
	if !errors.Is(wrapped, ErrValidation) {
		t.Error("wrapped ValidationError should match ErrValidation")
	}
	if errors.Is(wrapped, ErrAPI) {
		t.Error("ValidationError should not match ErrAPI")
	}
}
