package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
)

func TestCostMilliCents(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		usage    transport.Usage
		want     int64
	}{
		{
			name:     "gpt-4o",
			provider: ProviderOpenAI,
			model:    "gpt-4o",
			usage:    transport.Usage{PromptTokens: 1000, CompletionTokens: 1000},
			want:     90000, // 30000 + 60000
		},
		{
			name:     "gpt-4o-mini partial thousands",
			provider: ProviderOpenAI,
			model:    "gpt-4o-mini",
			usage:    transport.Usage{PromptTokens: 500, CompletionTokens: 250},
			want:     1250, // 750 + 500
		},
		{
			name:     "claude haiku",
			provider: ProviderAnthropic,
			model:    "claude-3-5-haiku",
			usage:    transport.Usage{PromptTokens: 2000, CompletionTokens: 1000},
			want:     21000, // 6000 + 15000
		},
		{
			name:     "gemini flash",
			provider: ProviderGoogle,
			model:    "gemini-1.5-flash",
			usage:    transport.Usage{PromptTokens: 10000, CompletionTokens: 2000},
			want:     8000, // 5000 + 3000
		},
		{
			name:     "unknown model falls back to provider default",
			provider: ProviderOpenAI,
			model:    "gpt-9-experimental",
			usage:    transport.Usage{PromptTokens: 1000, CompletionTokens: 1000},
			want:     3500, // default 1500 + 2000
		},
		{
			name:     "unknown provider costs zero",
			provider: "mystery",
			model:    "whatever",
			usage:    transport.Usage{PromptTokens: 1000, CompletionTokens: 1000},
			want:     0,
		},
		{
			name:     "zero usage",
			provider: ProviderOpenAI,
			model:    "gpt-4o",
			usage:    transport.Usage{},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CostMilliCents(tt.provider, tt.model, tt.usage))
		})
	}
}
