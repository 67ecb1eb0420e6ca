// Package configuration aggregates the core's settings: provider endpoints
// and credentials, resilience parameters, cache backend, and observability
// options. Defaults are production-ready; LoadEnv layers environment
// overrides on top.
package configuration

import (
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/cache"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/providers"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/ratelimit"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/retry"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
)

// Config holds the full configuration for the generation orchestrator and
// the pricing pipeline.
type Config struct {
	// Providers maps provider name to its endpoint and credentials.
	Providers map[string]providers.Config `json:"providers"`

	// ProviderPriority is the fixed fallback order. Every listed name must
	// have an entry in Providers.
	ProviderPriority []string `json:"provider_priority"`

	// RequestTimeout bounds one whole GenerateText call across all
	// providers and retries.
	RequestTimeout time.Duration `json:"request_timeout"`

	// AllowEmptyPrompt permits requests with an empty prompt to reach
	// providers. Off by default; empty prompts are rejected before any
	// provider call.
	AllowEmptyPrompt bool `json:"allow_empty_prompt"`

	// Retry controls per-provider attempt counts and backoff.
	Retry retry.Config `json:"retry"`

	// RateLimit sizes each provider's sliding admission window.
	RateLimit ratelimit.Config `json:"rate_limit"`

	// Transport controls the shared HTTP pipeline (pacing, breakers).
	Transport transport.Config `json:"transport"`

	// Cache configures the response/quote cache.
	Cache CacheConfig `json:"cache"`

	// Observability configures logging.
	Observability ObservabilityConfig `json:"observability"`
}

// CacheConfig controls the shared response and quote cache.
type CacheConfig struct {
	// Enabled turns caching on. When off, every request reaches a provider.
	Enabled bool `json:"enabled"`

	// TTL is how long entries stay valid.
	TTL time.Duration `json:"ttl"`

	// UseRedis selects the Redis store; off means the in-process store.
	UseRedis bool `json:"use_redis"`

	// Redis holds connection parameters when UseRedis is set.
	Redis cache.RedisConfig `json:"redis"`
}

// ObservabilityConfig controls logging behavior.
type ObservabilityConfig struct {
	LogLevel string `json:"log_level"`
}
