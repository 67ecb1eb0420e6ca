package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *GenerationRequest {
	return &GenerationRequest{
		Prompt:      "Write a short motivational quote about perseverance.",
		Category:    CategoryInspiration,
		Tone:        "friendly",
		MaxLength:   100,
		Temperature: 0.7,
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GenerationRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *GenerationRequest) {}},
		{
			name:    "empty prompt",
			mutate:  func(r *GenerationRequest) { r.Prompt = "" },
			wantErr: ErrEmptyPrompt,
		},
		{
			name:    "unknown category",
			mutate:  func(r *GenerationRequest) { r.Category = "poetry" },
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "zero max length",
			mutate:  func(r *GenerationRequest) { r.MaxLength = 0 },
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "temperature above bound",
			mutate:  func(r *GenerationRequest) { r.Temperature = 2.1 },
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "temperature below bound",
			mutate:  func(r *GenerationRequest) { r.Temperature = -0.1 },
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "boundary temperatures accepted",
			mutate: func(r *GenerationRequest) { r.Temperature = MaxTemperature },
		},
		{
			// Field checks come before the empty-prompt report so a
			// waived empty prompt never smuggles bad fields through.
			name: "empty prompt with bad temperature is invalid first",
			mutate: func(r *GenerationRequest) {
				r.Prompt = ""
				r.Temperature = 3.0
			},
			wantErr: ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := req.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestQuoteCategoryValid(t *testing.T) {
	assert.True(t, CategoryInspiration.Valid())
	assert.True(t, CategoryServiceEstimate.Valid())
	assert.True(t, CategoryGeneral.Valid())
	assert.False(t, QuoteCategory("").Valid())
	assert.False(t, QuoteCategory("INSPIRATION").Valid())
}

func TestProviderMetricsSuccessRate(t *testing.T) {
	idle := ProviderMetrics{}
	assert.Equal(t, 1.0, idle.SuccessRate(), "idle provider reads healthy")

	m := ProviderMetrics{Attempts: 4, Successes: 3, Failures: 1}
	assert.InDelta(t, 0.75, m.SuccessRate(), 1e-9)

	failing := ProviderMetrics{Attempts: 5, Failures: 5}
	assert.Equal(t, 0.0, failing.SuccessRate())
}

func TestCostDollars(t *testing.T) {
	r := GenerationResult{CostMilliCents: 450_000}
	assert.InDelta(t, 4.5, r.CostDollars(), 1e-9)

	zero := GenerationResult{}
	assert.Equal(t, 0.0, zero.CostDollars())
}
