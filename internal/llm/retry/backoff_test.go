package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
)

func testConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		JitterFraction:  0, // deterministic for assertions
	}
}

func TestExponentialGrowth(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, 100*time.Millisecond, Exponential(1, cfg))
	assert.Equal(t, 200*time.Millisecond, Exponential(2, cfg))
	assert.Equal(t, 400*time.Millisecond, Exponential(3, cfg))
	assert.Equal(t, 800*time.Millisecond, Exponential(4, cfg))
}

func TestExponentialCapsAtMaxInterval(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, time.Second, Exponential(10, cfg))
}

func TestExponentialEdgeCases(t *testing.T) {
	cfg := testConfig()

	assert.Zero(t, Exponential(0, cfg))
	assert.Zero(t, Exponential(-1, cfg))

	// A zero initial interval must not produce a hot loop.
	cfg.InitialInterval = 0
	assert.Positive(t, Exponential(1, cfg))

	// A sub-1.0 multiplier must never shrink the delay.
	cfg = testConfig()
	cfg.Multiplier = 0.5
	assert.GreaterOrEqual(t, Exponential(3, cfg), Exponential(1, cfg))
}

func TestExponentialJitterBounds(t *testing.T) {
	cfg := testConfig()
	cfg.JitterFraction = 0.2

	base := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		d := Exponential(1, cfg)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/5)
	}
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	cfg := testConfig()

	err := &llmerrors.ProviderError{
		Provider:   "openai",
		StatusCode: 429,
		Type:       llmerrors.ErrorTypeRateLimit,
		RetryAfter: 7,
	}
	assert.Equal(t, 7*time.Second, Backoff(1, cfg, err))

	// Without guidance the exponential schedule applies.
	assert.Equal(t, 200*time.Millisecond, Backoff(2, cfg, errors.New("connection reset")))
	assert.Equal(t, 100*time.Millisecond, Backoff(1, cfg, nil))
}
