// Package retry computes backoff delays for transient provider failures.
// Delays grow exponentially with a small jitter; provider Retry-After
// guidance takes precedence when present.
package retry

import (
	"math/rand/v2"
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
)

// Config controls backoff behavior for failed provider attempts.
type Config struct {
	// MaxAttempts bounds calls per provider, first attempt included.
	MaxAttempts int `json:"max_attempts"`

	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration `json:"initial_interval"`

	// MaxInterval caps the exponential growth.
	MaxInterval time.Duration `json:"max_interval"`

	// Multiplier scales the delay between consecutive retries.
	Multiplier float64 `json:"multiplier"`

	// JitterFraction adds up to this fraction of the delay as random jitter.
	JitterFraction float64 `json:"jitter_fraction"`
}

// Backoff returns the delay before retry number attempt (1-based), honoring
// Retry-After guidance carried by err. Thread-safe via math/rand/v2.
func Backoff(attempt int, cfg Config, err error) time.Duration {
	if retryAfter := llmerrors.RetryAfterSeconds(err); retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	return Exponential(attempt, cfg)
}

// Exponential computes the pure exponential delay for retry number attempt
// (1-based) with jitter applied. Returns zero for non-positive attempts.
func Exponential(attempt int, cfg Config) time.Duration {
	if attempt <= 0 {
		return 0
	}

	backoff := cfg.InitialInterval
	if backoff <= 0 {
		backoff = time.Millisecond // Floor to avoid a hot retry loop.
	}

	multiplier := cfg.Multiplier
	if multiplier < 1.0 {
		multiplier = 1.0
	}

	for i := 1; i < attempt; i++ {
		backoff = time.Duration(float64(backoff) * multiplier)
		if cfg.MaxInterval > 0 && backoff > cfg.MaxInterval {
			backoff = cfg.MaxInterval
			break
		}
	}

	return withJitter(backoff, cfg.JitterFraction)
}

// withJitter adds up to fraction*base of random jitter to base.
func withJitter(base time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || base <= 0 {
		return base
	}
	if fraction > 1 {
		fraction = 1
	}
	jitter := rand.Float64() * fraction * float64(base) // #nosec G404 -- non-cryptographic jitter is appropriate here
	return base + time.Duration(jitter)
}
