package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
)

// fakeClock drives the limiter's injectable now func.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestWindow(limit int, window time.Duration) (*SlidingWindow, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	lim := NewSlidingWindow(Config{MaxRequests: limit, Window: window})
	lim.now = clock.now
	return lim, clock
}

func TestSlidingWindowAdmitsUpToLimit(t *testing.T) {
	lim, _ := newTestWindow(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, lim.Allow(), "call %d should be admitted", i+1)
	}
	assert.False(t, lim.Allow(), "call beyond the window must be denied")
	assert.Equal(t, 3, lim.InFlight())
}

func TestSlidingWindowPrunesAgedEntries(t *testing.T) {
	lim, clock := newTestWindow(2, time.Minute)

	require.True(t, lim.Allow())
	clock.advance(30 * time.Second)
	require.True(t, lim.Allow())
	require.False(t, lim.Allow())

	// The first timestamp ages out; capacity for exactly one more.
	clock.advance(31 * time.Second)
	assert.True(t, lim.Allow())
	assert.False(t, lim.Allow())
}

func TestSlidingWindowRetryAfter(t *testing.T) {
	lim, clock := newTestWindow(1, time.Minute)

	assert.Zero(t, lim.RetryAfter(), "empty window needs no wait")

	require.True(t, lim.Allow())
	assert.Equal(t, time.Minute, lim.RetryAfter())

	clock.advance(40 * time.Second)
	assert.Equal(t, 20*time.Second, lim.RetryAfter())

	clock.advance(21 * time.Second)
	assert.Zero(t, lim.RetryAfter())
}

func TestSlidingWindowAdmitDoesNotRecord(t *testing.T) {
	lim, _ := newTestWindow(1, time.Minute)

	assert.True(t, lim.Admit())
	assert.True(t, lim.Admit(), "Admit must not consume capacity")
	assert.Equal(t, 0, lim.InFlight())

	lim.Record()
	assert.False(t, lim.Admit())
}

func TestRegistryIsolatesProviders(t *testing.T) {
	reg := NewRegistry(Config{MaxRequests: 1, Window: time.Minute})

	require.NoError(t, reg.Check("openai"))
	require.NoError(t, reg.Check("anthropic"), "providers must not share a window")

	err := reg.Check("openai")
	require.Error(t, err)

	var rle *llmerrors.RateLimitError
	require.ErrorAs(t, err, &rle)
	assert.Equal(t, "openai", rle.Provider)
	assert.True(t, rle.LocalLimit)
	assert.Equal(t, 1, rle.Limit)
	assert.Positive(t, rle.RetryAfter)
}

func TestRegistryReusesLimiter(t *testing.T) {
	reg := NewRegistry(Config{MaxRequests: 2, Window: time.Minute})
	assert.Same(t, reg.For("google"), reg.For("google"))
}
