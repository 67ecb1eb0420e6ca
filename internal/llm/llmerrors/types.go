// Package llmerrors defines the error taxonomy for provider-facing operations.
// Types determine whether an attempt is retried, the provider is skipped, or
// the whole request fails, enabling consistent handling of transient versus
// permanent failures across the fallback chain.
package llmerrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes provider failures for retry classification.
type ErrorType string

const (
	// ErrorTypeTimeout indicates request timeout or deadline exceeded (retryable).
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeRateLimit indicates a provider-side rate limit; never retried
	// against the same provider, the chain moves on immediately.
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeNetwork indicates network connectivity issues (retryable).
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeProvider indicates provider service unavailable, 5xx-class (retryable).
	ErrorTypeProvider ErrorType = "provider_unavailable"

	// ErrorTypePermanent indicates a malformed request or other non-transient
	// failure; the provider is skipped without retries.
	ErrorTypePermanent ErrorType = "permanent"

	// ErrorTypeAuth indicates authentication failed (non-retryable).
	ErrorTypeAuth ErrorType = "authentication"

	// ErrorTypeValidation indicates input validation failed (non-retryable).
	ErrorTypeValidation ErrorType = "validation_failed"

	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = "unknown"
)

// Common sentinel errors for consistent error handling.
var (
	// ErrProviderUnavailable indicates the provider service is down or unreachable.
	ErrProviderUnavailable = errors.New("provider service unavailable")

	// ErrRateLimitExceeded indicates a rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrCircuitOpen indicates the provider's circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrCacheUnavailable indicates the cache backing store failed; never
	// fatal, callers degrade to a miss.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrUnknownProvider indicates an unknown or unconfigured provider.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoProvidersConfigured indicates an empty provider priority list.
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrAllVariantsFailed indicates every variant of a multi-variant
	// generation raised.
	ErrAllVariantsFailed = errors.New("all variants failed")
)

// ProviderError captures a structured error response from a provider.
// Includes the HTTP status, provider-specific code, and retry timing so the
// orchestrator can decide between retry, skip, and fail.
type ProviderError struct {
	Provider   string    `json:"provider"`
	StatusCode int       `json:"status_code"`
	Message    string    `json:"message"`
	Code       string    `json:"code"`
	Type       ErrorType `json:"type"`
	RetryAfter int       `json:"retry_after"` // Retry-After header value in seconds
}

// Error returns the formatted provider error with status code context.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsRetryable reports whether the error warrants another attempt against the
// same provider. Rate limits are deliberately excluded: those skip to the
// next provider instead of burning retry budget.
func (e *ProviderError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeTimeout, ErrorTypeNetwork, ErrorTypeProvider:
		return true
	default:
		return false
	}
}

// GetRetryAfter returns the provider-specified backoff, or zero.
func (e *ProviderError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}

// RateLimitError reports admission denial, either from the local sliding
// window or a provider 429.
type RateLimitError struct {
	Provider   string `json:"provider"`
	RetryAfter int    `json:"retry_after"` // Seconds to wait before retry
	Limit      int    `json:"limit"`       // Window capacity
	LocalLimit bool   `json:"local_limit"` // True when the local window denied admission
}

// Error returns the formatted rate limit error with retry guidance.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded for %s, retry after %d seconds", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded for %s", e.Provider)
}

// GetRetryAfter returns the advised wait, or zero.
func (e *RateLimitError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}

// ExhaustedError is the single fatal outcome of the fallback chain: every
// configured provider was tried and none succeeded. LastErr preserves the
// final underlying failure for diagnosis.
type ExhaustedError struct {
	Attempted []string `json:"attempted"`
	LastErr   error    `json:"-"`
}

// Error names every attempted provider and the last underlying failure.
func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("all providers exhausted (%d attempted), last error: %v", len(e.Attempted), e.LastErr)
	}
	return fmt.Sprintf("all providers exhausted (%d attempted)", len(e.Attempted))
}

// Unwrap exposes the last underlying error to errors.Is/As.
func (e *ExhaustedError) Unwrap() error { return e.LastErr }
