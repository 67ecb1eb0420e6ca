// Package providers implements one ProviderAdapter per upstream
// text-completion service. Each adapter owns its provider's wire format,
// authentication scheme, error parsing, and cost table; the orchestrator
// never branches on provider identity.
package providers

import (
	"fmt"
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
)

// Supported provider identifiers. These constants must match the provider
// names used in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Config holds provider-specific configuration and authentication.
type Config struct {
	Endpoint string            `json:"endpoint"`
	APIKey   string            `json:"-"` // Sensitive, not serialized
	Model    string            `json:"model"`
	Timeout  time.Duration     `json:"timeout"`
	Headers  map[string]string `json:"headers,omitempty"`
}

// NewRouter creates a router with one adapter per configured provider.
// Unknown provider names fail construction rather than first use.
func NewRouter(configs map[string]Config) (transport.Router, error) {
	adapters := make(map[string]transport.ProviderAdapter, len(configs))

	for name, cfg := range configs {
		var adapter transport.ProviderAdapter
		switch name {
		case ProviderOpenAI:
			adapter = NewOpenAIAdapter(cfg)
		case ProviderAnthropic:
			adapter = NewAnthropicAdapter(cfg)
		case ProviderGoogle:
			adapter = NewGoogleAdapter(cfg)
		default:
			return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, name)
		}
		adapters[name] = adapter
	}

	return &router{adapters: adapters}, nil
}

// router implements transport.Router over a static adapter registry.
type router struct {
	adapters map[string]transport.ProviderAdapter
}

// Pick selects the adapter for the given provider name.
func (r *router) Pick(provider string) (transport.ProviderAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, provider)
	}
	return adapter, nil
}
