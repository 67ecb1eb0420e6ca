// Package ratelimit implements sliding-window admission control for provider
// calls. Each provider gets an independent window of N requests per trailing
// W duration, backed by a pruned timestamp log under a single mutex.
//
// Admission is advisory, not reserved: two goroutines that check concurrently
// can momentarily exceed the window by one in-flight call. That is an
// accepted trade-off of check-then-record control, not a bug; the window is
// protection against sustained overrun, not a strict token bucket.
package ratelimit

import (
	"sync"
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
)

// Config sizes one provider's admission window.
type Config struct {
	// MaxRequests is the window capacity N.
	MaxRequests int `json:"max_requests"`

	// Window is the trailing duration W.
	Window time.Duration `json:"window"`
}

// SlidingWindow admits up to N requests in any trailing window of length W.
// The zero value is unusable; construct with NewSlidingWindow.
type SlidingWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
	limit      int
	window     time.Duration

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewSlidingWindow creates a limiter admitting cfg.MaxRequests per cfg.Window.
func NewSlidingWindow(cfg Config) *SlidingWindow {
	return &SlidingWindow{
		limit:  cfg.MaxRequests,
		window: cfg.Window,
		now:    time.Now,
	}
}

// Admit reports whether a new call may proceed without exceeding the window.
// It prunes aged-out timestamps but records nothing; pair with Record, or use
// Allow for the combined operation.
func (s *SlidingWindow) Admit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(s.now())
	return len(s.timestamps) < s.limit
}

// Record appends the current timestamp to the log.
func (s *SlidingWindow) Record() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timestamps = append(s.timestamps, s.now())
}

// Allow combines Admit and Record under one lock acquisition, closing the
// check-to-record gap for single-caller paths.
func (s *SlidingWindow) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	if len(s.timestamps) >= s.limit {
		return false
	}
	s.timestamps = append(s.timestamps, now)
	return true
}

// RetryAfter estimates how long until the oldest recorded timestamp ages out
// of the window. Returns zero when the window has capacity.
func (s *SlidingWindow) RetryAfter() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.prune(now)
	if len(s.timestamps) < s.limit {
		return 0
	}
	return s.timestamps[0].Add(s.window).Sub(now)
}

// InFlight returns the number of timestamps currently inside the window.
func (s *SlidingWindow) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune(s.now())
	return len(s.timestamps)
}

// prune drops timestamps older than the window. Caller must hold mu.
// O(k) in the number of in-window entries; the log is append-ordered so a
// single scan from the front suffices.
func (s *SlidingWindow) prune(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.timestamps) && !s.timestamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		s.timestamps = append(s.timestamps[:0], s.timestamps[i:]...)
	}
}

// Registry holds one SlidingWindow per provider, created lazily with a shared
// default configuration.
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*SlidingWindow
	cfg      Config
}

// NewRegistry creates a registry that sizes every provider's window with cfg.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		limiters: make(map[string]*SlidingWindow),
		cfg:      cfg,
	}
}

// For returns the provider's limiter, creating it on first use.
func (r *Registry) For(provider string) *SlidingWindow {
	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[provider]
	if !ok {
		lim = NewSlidingWindow(r.cfg)
		r.limiters[provider] = lim
	}
	return lim
}

// Check performs combined admission for the provider, returning a
// RateLimitError with retry guidance on denial.
func (r *Registry) Check(provider string) error {
	lim := r.For(provider)
	if lim.Allow() {
		return nil
	}

	retryAfter := int(lim.RetryAfter().Seconds()) + 1
	return &llmerrors.RateLimitError{
		Provider:   provider,
		RetryAfter: retryAfter,
		Limit:      r.cfg.MaxRequests,
		LocalLimit: true,
	}
}
