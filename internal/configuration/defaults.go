package configuration

import (
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/providers"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/ratelimit"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/retry"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
)

// Request and retry constants.
const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultProviderTimeout = 10 * time.Second
	DefaultMaxAttempts     = 3
	DefaultInitialInterval = 250 * time.Millisecond
	DefaultMaxInterval     = 5 * time.Second
	DefaultMultiplier      = 2.0
	DefaultJitterFraction  = 0.2
)

// Rate limiting and pacing constants.
const (
	DefaultWindowRequests = 60
	DefaultWindow         = time.Minute
	DefaultPacePerSecond  = 20.0
	DefaultPaceBurst      = 5
)

// Cache constants.
const (
	DefaultCacheTTL = time.Hour
)

// Default models per provider.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-3-5-haiku"
	DefaultGoogleModel    = "gemini-1.5-flash"
)

// DefaultConfig returns a production-ready configuration with all three
// providers in priority order. API keys are left empty for LoadEnv to fill.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]providers.Config{
			providers.ProviderOpenAI: {
				Model:   DefaultOpenAIModel,
				Timeout: DefaultProviderTimeout,
			},
			providers.ProviderAnthropic: {
				Model:   DefaultAnthropicModel,
				Timeout: DefaultProviderTimeout,
			},
			providers.ProviderGoogle: {
				Model:   DefaultGoogleModel,
				Timeout: DefaultProviderTimeout,
			},
		},
		ProviderPriority: []string{
			providers.ProviderOpenAI,
			providers.ProviderAnthropic,
			providers.ProviderGoogle,
		},
		RequestTimeout: DefaultRequestTimeout,
		Retry: retry.Config{
			MaxAttempts:     DefaultMaxAttempts,
			InitialInterval: DefaultInitialInterval,
			MaxInterval:     DefaultMaxInterval,
			Multiplier:      DefaultMultiplier,
			JitterFraction:  DefaultJitterFraction,
		},
		RateLimit: ratelimit.Config{
			MaxRequests: DefaultWindowRequests,
			Window:      DefaultWindow,
		},
		Transport: transport.Config{
			HTTPTimeout:           DefaultProviderTimeout,
			PaceRequestsPerSecond: DefaultPacePerSecond,
			PaceBurst:             DefaultPaceBurst,
			BreakerEnabled:        true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     DefaultCacheTTL,
		},
		Observability: ObservabilityConfig{
			LogLevel: "info",
		},
	}
}
