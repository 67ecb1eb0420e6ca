// Package llm implements the provider-resilient generation orchestrator: a
// cache-fronted fallback chain over interchangeable provider adapters, with
// per-provider sliding-window admission, bounded retries with exponential
// backoff, and process-lifetime provider metrics.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/configuration"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/cache"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/providers"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/ratelimit"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/observability"
)

// Client is the orchestrator's public surface. Implementations are safe for
// concurrent use; results are owned by the caller after return.
type Client interface {
	// GenerateText runs one request through the cache and the provider
	// fallback chain. The only fatal outcome is every provider failing.
	GenerateText(ctx context.Context, req *domain.GenerationRequest, opts ...RequestOption) (*domain.GenerationResult, error)

	// GenerateVariants issues count independent cache-bypassing requests
	// with the temperature nudged upward per variant and returns the
	// survivors sorted by descending quality score.
	GenerateVariants(ctx context.Context, req *domain.GenerationRequest, count int) ([]*domain.GenerationResult, error)

	// GetMetrics returns a copy of every provider's counters.
	GetMetrics() map[string]domain.ProviderMetrics

	// HealthCheck reports per-provider health derived from recorded
	// attempts and circuit breaker state.
	HealthCheck(ctx context.Context) map[string]domain.ProviderHealth

	// CacheHealth reports the response cache backend's reachability, its
	// degraded flag, and effectiveness counters.
	CacheHealth(ctx context.Context) domain.CacheHealth

	// Close releases the cache backend and flushes nothing else; provider
	// connections are plain HTTP and close with their idle pool.
	Close() error
}

// Transport executes one provider attempt. *transport.Pipeline implements
// it; tests substitute stubs.
type Transport interface {
	Do(ctx context.Context, req *transport.Request) (*transport.Response, error)
	BreakerState(provider string) string
}

// RequestOption adjusts one GenerateText call without mutating the request.
type RequestOption func(*callOptions)

type callOptions struct {
	preferredProvider string
	bypassCache       bool
}

// WithPreferredProvider moves the named provider to the front of the attempt
// order; the remaining providers keep their configured priority.
func WithPreferredProvider(provider string) RequestOption {
	return func(o *callOptions) { o.preferredProvider = provider }
}

// withCacheBypass skips both cache lookup and store for this call. Used by
// variant generation, which needs fresh samples.
func withCacheBypass() RequestOption {
	return func(o *callOptions) { o.bypassCache = true }
}

// providerState pairs one provider's counters with its lock and last error.
type providerState struct {
	mu        sync.Mutex
	metrics   domain.ProviderMetrics
	lastError string
}

type client struct {
	cfg       *configuration.Config
	transport Transport
	cache     *cache.ResponseCache
	limiters  *ratelimit.Registry
	logger    *slog.Logger
	metrics   *observability.Metrics

	// states is never mutated after construction; each value locks itself.
	states map[string]*providerState
}

// Option customizes client construction, mainly for tests and hosts that
// share infrastructure.
type Option func(*client)

// WithTransport substitutes the provider transport.
func WithTransport(t Transport) Option {
	return func(c *client) { c.transport = t }
}

// WithCacheStore substitutes the cache backing store.
func WithCacheStore(s cache.Store) Option {
	return func(c *client) {
		c.cache = cache.New(s, c.cfg.Cache.TTL, c.logger)
	}
}

// WithLogger substitutes the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *client) { c.logger = l }
}

// WithMetrics attaches a Prometheus metric set.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *client) { c.metrics = m }
}

// New constructs the orchestrator from configuration: provider router and
// transport, cache (Redis when configured, in-process otherwise), one
// sliding-window limiter per provider, and zeroed metrics. The context
// bounds backend connection attempts only.
func New(ctx context.Context, cfg *configuration.Config, opts ...Option) (Client, error) {
	if len(cfg.ProviderPriority) == 0 {
		return nil, llmerrors.ErrNoProvidersConfigured
	}
	for _, name := range cfg.ProviderPriority {
		if _, ok := cfg.Providers[name]; !ok {
			return nil, fmt.Errorf("%w: priority names unconfigured provider %q", llmerrors.ErrUnknownProvider, name)
		}
	}

	c := &client{
		cfg:      cfg,
		limiters: ratelimit.NewRegistry(cfg.RateLimit),
		logger:   observability.NewLogger(cfg.Observability.LogLevel).With("component", "orchestrator"),
		states:   make(map[string]*providerState, len(cfg.ProviderPriority)),
	}
	for _, name := range cfg.ProviderPriority {
		c.states[name] = &providerState{}
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		router, err := providers.NewRouter(cfg.Providers)
		if err != nil {
			return nil, err
		}
		c.transport = transport.NewPipeline(cfg.Transport, router, nil)
	}

	if c.cache == nil {
		store, err := newStore(ctx, cfg)
		if err != nil {
			// Cache trouble never blocks startup; degrade to in-process.
			c.logger.Warn("cache backend unavailable, using in-process store", "error", err)
			store = cache.NewMemoryStore()
		}
		c.cache = cache.New(store, cfg.Cache.TTL, c.logger)
	}

	return c, nil
}

// newStore selects the configured cache backend.
func newStore(ctx context.Context, cfg *configuration.Config) (cache.Store, error) {
	if cfg.Cache.UseRedis {
		return cache.NewRedisStore(ctx, cfg.Cache.Redis)
	}
	return cache.NewMemoryStore(), nil
}

// Close releases the cache backend.
func (c *client) Close() error {
	return c.cache.Close()
}
