// Package transport carries normalized provider requests over HTTP. It owns
// the wire-level concerns every adapter shares: outbound pacing, per-provider
// circuit breaking, timeouts, and latency measurement.
package transport

import (
	"context"
	"net/http"
	"time"
)

// Request is the normalized form of a generation call, independent of any
// provider's wire format. Adapters translate it into provider-specific HTTP.
type Request struct {
	// Provider and Model select the upstream endpoint.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Prompt is the user content; SystemPrompt carries style instructions
	// derived from category and tone.
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Generation parameters.
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// Timeout bounds this single attempt; zero means the caller's context
	// deadline alone applies.
	Timeout time.Duration `json:"timeout"`
}

// Response is the normalized provider output.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`

	// Model echoes the provider-reported model identifier.
	Model string `json:"model"`

	// Usage carries normalized token counts and timing.
	Usage Usage `json:"usage"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`
}

// Usage normalizes provider-specific token accounting.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	LatencyMs        int64 `json:"latency_ms"`
}

// ProviderAdapter abstracts one provider's HTTP dialect. Each adapter builds
// provider-specific requests from the normalized form and parses responses
// back, including error classification.
type ProviderAdapter interface {
	// Build constructs the provider-specific HTTP request.
	Build(ctx context.Context, req *Request) (*http.Request, error)

	// Parse extracts a normalized Response, or a classified error.
	Parse(httpResp *http.Response) (*Response, error)

	// Name returns the canonical provider identifier.
	Name() string
}
