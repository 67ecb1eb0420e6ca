// Package domain defines the core value types shared by the generation
// orchestrator and the service-quote pricing pipeline. Types here are plain
// data: construction validates them, and callers own them after return.
package domain

import (
	"fmt"
	"time"
)

// QuoteCategory classifies what kind of text a generation request is after.
// The category participates in the cache fingerprint, so requests that differ
// only in category never collide.
type QuoteCategory string

const (
	// CategoryInspiration requests a short motivational phrase.
	CategoryInspiration QuoteCategory = "inspiration"

	// CategoryServiceEstimate requests prose describing a priced service estimate.
	CategoryServiceEstimate QuoteCategory = "service_estimate"

	// CategoryGeneral covers uncategorized free-text generation.
	CategoryGeneral QuoteCategory = "general"
)

// Valid reports whether the category is one of the known values.
func (c QuoteCategory) Valid() bool {
	switch c {
	case CategoryInspiration, CategoryServiceEstimate, CategoryGeneral:
		return true
	}
	return false
}

// Temperature bounds accepted by every provider we route to.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// GenerationRequest describes one text-generation call. It is immutable once
// constructed: the orchestrator copies it per provider attempt and never
// writes through it. RequestID and timestamps deliberately live on the result,
// not here, so that semantically identical requests stay cache-equivalent.
type GenerationRequest struct {
	// Prompt is the free-text instruction sent to the provider.
	Prompt string `json:"prompt"`

	// Context optionally grounds the generation (job details, prior text).
	Context string `json:"context,omitempty"`

	// Category selects the prompt family and cache namespace.
	Category QuoteCategory `json:"category" validate:"required"`

	// Tone is a free-form style hint ("friendly", "formal").
	Tone string `json:"tone,omitempty"`

	// MaxLength caps the generated output in tokens.
	MaxLength int `json:"max_length" validate:"gt=0"`

	// Temperature controls sampling randomness, 0.0-2.0 inclusive.
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`

	// RequesterID identifies the calling user for attribution.
	RequesterID string `json:"requester_id,omitempty"`

	// SessionID optionally ties the request to a conversation.
	SessionID string `json:"session_id,omitempty"`
}

// Validate checks structural constraints on the request. An empty prompt is
// reported via ErrEmptyPrompt, and only after every other field has passed,
// so callers waiving the empty-prompt policy still get full validation.
func (r *GenerationRequest) Validate() error {
	if !r.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, r.Category)
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.Prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// GenerationResult is the orchestrator's terminal output for one request.
// The caller owns it after return; the orchestrator keeps no reference.
type GenerationResult struct {
	// Text is the generated content.
	Text string `json:"text"`

	// Provider and Model identify which upstream produced the text.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// TokensUsed is the provider-reported total token consumption.
	TokensUsed int64 `json:"tokens_used"`

	// CostMilliCents is the computed cost in milli-cents (1/1000 cent).
	// Integer milli-cents avoid floating-point drift in cost accounting.
	CostMilliCents int64 `json:"cost_milli_cents"`

	// QualityScore is the heuristic 0.0-1.0 fitness estimate.
	QualityScore float64 `json:"quality_score"`

	// Latency is the wall-clock duration of the winning provider call.
	Latency time.Duration `json:"latency"`

	// Timestamp records when the result was produced.
	Timestamp time.Time `json:"timestamp"`

	// RequestID uniquely identifies this generation.
	RequestID string `json:"request_id"`

	// CacheHit is true when the result was served from the response cache.
	CacheHit bool `json:"cache_hit"`
}

// CostDollars converts the milli-cent cost to dollars for display.
func (r *GenerationResult) CostDollars() float64 {
	return float64(r.CostMilliCents) / 100_000
}

// ProviderMetrics accumulates per-provider counters for the process lifetime.
// Mutated only by the orchestrator under a per-provider lock; GetMetrics
// returns copies so readers never race with updates.
type ProviderMetrics struct {
	Attempts            int64         `json:"attempts"`
	Successes           int64         `json:"successes"`
	Failures            int64         `json:"failures"`
	TotalTokens         int64         `json:"total_tokens"`
	TotalCostMilliCents int64         `json:"total_cost_milli_cents"`
	AvgLatency          time.Duration `json:"avg_latency"`
	LastCall            time.Time     `json:"last_call"`
}

// SuccessRate returns successes/attempts, or 1.0 when nothing was attempted
// so that an idle provider reads as healthy.
func (m *ProviderMetrics) SuccessRate() float64 {
	if m.Attempts == 0 {
		return 1.0
	}
	return float64(m.Successes) / float64(m.Attempts)
}

// ProviderHealth is the read-only health snapshot exposed per provider.
type ProviderHealth struct {
	Healthy    bool          `json:"healthy"`
	AvgLatency time.Duration `json:"avg_latency"`
	LastError  string        `json:"last_error,omitempty"`
}

// CacheHealth is the read-only snapshot of the response cache backend:
// reachability, the degraded flag, and effectiveness counters.
type CacheHealth struct {
	Healthy   bool   `json:"healthy"`
	Degraded  bool   `json:"degraded"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Errors    int64  `json:"errors"`
	LastError string `json:"last_error,omitempty"`
}
