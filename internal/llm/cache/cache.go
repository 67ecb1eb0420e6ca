package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
)

// DefaultTTL is how long cached generation results stay valid.
const DefaultTTL = time.Hour

// ResponseCache caches generation results and quotes by request fingerprint.
// Every store failure degrades to a miss or no-op with a logged warning;
// cache problems must never fail the caller's request.
type ResponseCache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger

	// Counters accessed atomically for stats and health reporting.
	hits     atomic.Int64
	misses   atomic.Int64
	errors   atomic.Int64
	degraded atomic.Bool
	lastErr  atomic.Value // string
}

// New creates a ResponseCache over the given store. A nil logger falls back
// to slog.Default; a non-positive ttl falls back to DefaultTTL.
func New(store Store, ttl time.Duration, logger *slog.Logger) *ResponseCache {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
}

// Get returns the cached result for the fingerprint, or (nil, false) on miss.
// The returned result carries CacheHit=true. Store errors degrade to a miss.
func (c *ResponseCache) Get(ctx context.Context, fingerprint string) (*domain.GenerationResult, bool) {
	raw, err := c.store.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.warnDegraded("cache get failed", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	var result domain.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Corrupt entries count as misses; the fresh result overwrites them.
		c.logger.Warn("corrupt cache entry dropped", "error", err)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	c.degraded.Store(false)
	result.CacheHit = true
	return &result, true
}

// Put stores a generation result under the fingerprint. Results already
// served from cache are never re-cached. Store errors degrade to a no-op.
func (c *ResponseCache) Put(ctx context.Context, fingerprint string, result *domain.GenerationResult) {
	if result == nil || result.CacheHit {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache marshal failed", "error", err)
		return
	}

	if err := c.store.Set(ctx, fingerprint, raw, c.ttl); err != nil {
		c.warnDegraded("cache put failed", err)
	}
}

// GetQuote returns the cached quote for the fingerprint, or (nil, false).
func (c *ResponseCache) GetQuote(ctx context.Context, fingerprint string) (*domain.EnhancedQuote, bool) {
	raw, err := c.store.Get(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.warnDegraded("quote cache get failed", err)
		}
		c.misses.Add(1)
		return nil, false
	}

	var quote domain.EnhancedQuote
	if err := json.Unmarshal(raw, &quote); err != nil {
		c.logger.Warn("corrupt quote cache entry dropped", "error", err)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	c.degraded.Store(false)
	quote.CacheHit = true
	return &quote, true
}

// PutQuote stores a quote under the fingerprint with the cache TTL.
func (c *ResponseCache) PutQuote(ctx context.Context, fingerprint string, quote *domain.EnhancedQuote) {
	if quote == nil || quote.CacheHit {
		return
	}

	raw, err := json.Marshal(quote)
	if err != nil {
		c.logger.Warn("quote cache marshal failed", "error", err)
		return
	}

	if err := c.store.Set(ctx, fingerprint, raw, c.ttl); err != nil {
		c.warnDegraded("quote cache put failed", err)
	}
}

// Healthy reports whether the backing store answered the last operation (or
// an explicit ping) without error.
func (c *ResponseCache) Healthy(ctx context.Context) bool {
	if err := c.store.Ping(ctx); err != nil {
		c.markUnavailable(err)
		return false
	}
	c.degraded.Store(false)
	return true
}

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Errors    int64  `json:"errors"`
	Degraded  bool   `json:"degraded"`
	LastError string `json:"last_error,omitempty"`
}

// Stats returns a snapshot of the cache counters.
func (c *ResponseCache) Stats() Stats {
	lastErr, _ := c.lastErr.Load().(string)
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Errors:    c.errors.Load(),
		Degraded:  c.degraded.Load(),
		LastError: lastErr,
	}
}

// Close releases the backing store.
func (c *ResponseCache) Close() error {
	return c.store.Close()
}

func (c *ResponseCache) warnDegraded(msg string, err error) {
	c.errors.Add(1)
	wrapped := c.markUnavailable(err)
	c.logger.Warn(msg, "error", wrapped)
}

// markUnavailable flags the store as degraded and records the failure under
// the cache-unavailable sentinel so health readers can classify it.
func (c *ResponseCache) markUnavailable(err error) error {
	wrapped := fmt.Errorf("%w: %v", llmerrors.ErrCacheUnavailable, err)
	c.degraded.Store(true)
	c.lastErr.Store(wrapped.Error())
	return wrapped
}
