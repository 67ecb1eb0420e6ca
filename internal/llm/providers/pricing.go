package providers

import (
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
)

// Per-1000-token rates in milli-cents (1/1000 cent). Integer arithmetic with
// the division last keeps cost accounting free of floating-point drift.
const milliCentsFactor = 1000

// modelRate holds prompt and completion rates for one model.
type modelRate struct {
	promptPer1000 int64
	outputPer1000 int64
}

// rateTables maps provider -> model -> rates. Each provider carries its own
// cost table; unknown models fall back to the provider's defaultRate entry.
var rateTables = map[string]map[string]modelRate{
	ProviderOpenAI: {
		"gpt-4o":      {promptPer1000: 30000, outputPer1000: 60000},
		"gpt-4o-mini": {promptPer1000: 1500, outputPer1000: 2000},
		defaultRate:   {promptPer1000: 1500, outputPer1000: 2000},
	},
	ProviderAnthropic: {
		"claude-3-5-sonnet": {promptPer1000: 15000, outputPer1000: 75000},
		"claude-3-5-haiku":  {promptPer1000: 3000, outputPer1000: 15000},
		defaultRate:         {promptPer1000: 3000, outputPer1000: 15000},
	},
	ProviderGoogle: {
		"gemini-1.5-flash": {promptPer1000: 500, outputPer1000: 1500},
		"gemini-1.5-pro":   {promptPer1000: 7000, outputPer1000: 21000},
		defaultRate:        {promptPer1000: 500, outputPer1000: 1500},
	},
}

const defaultRate = "_default"

// CostMilliCents computes the cost of the given usage against the provider's
// model rate table. Unknown providers cost zero rather than failing the
// request; cost accounting is advisory, not gating.
func CostMilliCents(provider, model string, usage transport.Usage) int64 {
	table, ok := rateTables[provider]
	if !ok {
		return 0
	}
	rate, ok := table[model]
	if !ok {
		rate = table[defaultRate]
	}
	promptCost := (usage.PromptTokens * rate.promptPer1000) / milliCentsFactor
	outputCost := (usage.CompletionTokens * rate.outputPer1000) / milliCentsFactor
	return promptCost + outputCost
}
