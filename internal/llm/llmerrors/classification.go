package llmerrors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

// IsRetryable reports whether an error warrants another attempt against the
// same provider. Rate limits and permanent failures return false; network
// errors, timeouts, and 5xx-class provider errors return true.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Rate limits skip the provider, they never retry in place.
	if IsRateLimit(err) {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.IsRetryable()
	}

	// Deadline exceeded on the parent context is not retryable: the caller's
	// budget is spent. A per-attempt timeout surfaces as a net.Error instead.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, ErrProviderUnavailable) {
		return true
	}

	// Conservative default, avoid retry loops on unknown errors.
	return false
}

// IsRateLimit identifies rate limiting errors, local or provider-side.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return true
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Type == ErrorTypeRateLimit
	}

	return errors.Is(err, ErrRateLimitExceeded)
}

// RetryAfterSeconds extracts provider-advised backoff from an error chain,
// or 0 when no guidance is available.
func RetryAfterSeconds(err error) int {
	if err == nil {
		return 0
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr.RetryAfter
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.RetryAfter
	}

	return 0
}

// Classify determines an ErrorType from an HTTP status and provider error code.
// Provider codes take precedence over status codes because some providers
// return rate-limit codes under generic 4xx statuses.
func Classify(statusCode int, errorCode string) ErrorType {
	lowerCode := strings.ToLower(errorCode)
	switch {
	case strings.Contains(lowerCode, "rate") || strings.Contains(lowerCode, "limit"):
		return ErrorTypeRateLimit
	case strings.Contains(lowerCode, "timeout"):
		return ErrorTypeTimeout
	case strings.Contains(lowerCode, "auth") || strings.Contains(lowerCode, "unauthorized"):
		return ErrorTypeAuth
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorTypeAuth
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrorTypeTimeout
	case http.StatusBadRequest, http.StatusNotFound, http.StatusUnprocessableEntity:
		return ErrorTypePermanent
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrorTypeProvider
	default:
		if statusCode >= 500 {
			return ErrorTypeProvider
		}
		if statusCode >= 400 {
			return ErrorTypePermanent
		}
		return ErrorTypeUnknown
	}
}
