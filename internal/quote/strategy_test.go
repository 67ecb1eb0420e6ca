package quote

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

func TestSelectIsDeterministicPerCustomer(t *testing.T) {
	selector := NewSelector()

	for _, id := range []string{"cust-1", "cust-2", "a", "a longer customer identifier"} {
		first := selector.Select(id)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, selector.Select(id),
				"customer %q must always land in the same arm", id)
		}
	}
}

func TestSelectCoversEveryStrategy(t *testing.T) {
	selector := NewSelector()

	seen := make(map[domain.PricingStrategy]bool)
	for i := 0; i < 500; i++ {
		seen[selector.Select(fmt.Sprintf("customer-%d", i))] = true
	}
	for _, strategy := range domain.Strategies() {
		assert.True(t, seen[strategy], "strategy %s never selected across 500 customers", strategy)
	}
}

func TestSelectAnonymousCustomer(t *testing.T) {
	selector := NewSelector()

	// Anonymous selection is random but must stay inside the known set.
	valid := make(map[domain.PricingStrategy]bool)
	for _, s := range domain.Strategies() {
		valid[s] = true
	}
	for i := 0; i < 100; i++ {
		assert.True(t, valid[selector.Select("")])
	}
}

func TestPickBucketBoundaries(t *testing.T) {
	assert.Equal(t, domain.StrategyCompetitive, pickBucket(0))
	assert.Equal(t, domain.StrategyCompetitive, pickBucket(29))
	assert.Equal(t, domain.StrategyValue, pickBucket(30))
	assert.Equal(t, domain.StrategyValue, pickBucket(59))
	assert.Equal(t, domain.StrategyPremium, pickBucket(60))
	assert.Equal(t, domain.StrategyPremium, pickBucket(79))
	assert.Equal(t, domain.StrategyDynamic, pickBucket(80))
	assert.Equal(t, domain.StrategyDynamic, pickBucket(99))
}

func TestApplyAdjustsLaborOnly(t *testing.T) {
	selector := NewSelector()
	base, err := domain.NewPricingBreakdown(400, 60, 48, 30)
	require.NoError(t, err)

	tests := []struct {
		strategy  domain.PricingStrategy
		wantLabor float64
	}{
		{domain.StrategyCompetitive, 360.00},
		{domain.StrategyValue, 400.00},
		{domain.StrategyPremium, 500.00},
		{domain.StrategyDynamic, 440.00},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			got, err := selector.Apply(base, tt.strategy)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantLabor, got.Labor, 0.01)
			assert.Equal(t, base.Equipment, got.Equipment)
			assert.Equal(t, base.Materials, got.Materials)
			assert.Equal(t, base.Travel, got.Travel)

			// The rebuilt breakdown keeps the sum invariants.
			assert.InDelta(t, got.Labor+got.Equipment+got.Materials+got.Travel, got.Subtotal, 1e-9)
			assert.InDelta(t, got.Subtotal+got.Tax, got.Total, 1e-9)
		})
	}
}

func TestApplyUnknownStrategyIsNeutral(t *testing.T) {
	selector := NewSelector()
	base, err := domain.NewPricingBreakdown(400, 60, 48, 30)
	require.NoError(t, err)

	got, err := selector.Apply(base, domain.PricingStrategy("mystery"))
	require.NoError(t, err)
	assert.Equal(t, base.Total, got.Total)
}

func TestFeedbackAggregation(t *testing.T) {
	selector := NewSelector()

	selector.RecordFeedback(domain.StrategyPremium, 0.8)
	selector.RecordFeedback(domain.StrategyPremium, 0.6)
	selector.RecordFeedback(domain.StrategyPremium, 1.0)
	selector.RecordFeedback(domain.StrategyValue, 0.5)

	report := selector.Report()
	require.Contains(t, report, domain.StrategyPremium)
	assert.Equal(t, 3, report[domain.StrategyPremium].Count)
	assert.InDelta(t, 0.8, report[domain.StrategyPremium].MeanScore, 1e-9)
	assert.Equal(t, 1, report[domain.StrategyValue].Count)
	assert.NotContains(t, report, domain.StrategyDynamic)
}

func TestReportReturnsCopies(t *testing.T) {
	selector := NewSelector()
	selector.RecordFeedback(domain.StrategyValue, 0.4)

	report := selector.Report()
	entry := report[domain.StrategyValue]
	entry.Count = 99

	fresh := selector.Report()
	assert.Equal(t, 1, fresh[domain.StrategyValue].Count)
}
