package quote

import (
	"hash/fnv"
	"math/rand/v2"
	"sync"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// strategyWeights allocates customers across strategies in percent. The
// weights must sum to 100; bucket assignment walks them in Strategies()
// order.
var strategyWeights = map[domain.PricingStrategy]int{
	domain.StrategyCompetitive: 30,
	domain.StrategyValue:       30,
	domain.StrategyPremium:     20,
	domain.StrategyDynamic:     20,
}

// laborFactors is each strategy's labor multiplier. Only labor moves; the
// breakdown is then rebuilt so the sum invariants keep holding.
var laborFactors = map[domain.PricingStrategy]float64{
	domain.StrategyCompetitive: 0.90,
	domain.StrategyValue:       1.00,
	domain.StrategyPremium:     1.25,
	domain.StrategyDynamic:     1.10,
}

// StrategyStats aggregates post-quote feedback for one strategy.
type StrategyStats struct {
	Count     int     `json:"count"`
	MeanScore float64 `json:"mean_score"`
}

// Selector assigns customers to pricing strategies and aggregates outcome
// feedback. Assignment is deterministic per customer ID so a returning
// customer always lands in the same experiment arm.
type Selector struct {
	mu    sync.Mutex
	stats map[domain.PricingStrategy]*StrategyStats
}

// NewSelector creates a Selector with empty feedback state.
func NewSelector() *Selector {
	return &Selector{stats: make(map[domain.PricingStrategy]*StrategyStats)}
}

// Select picks a strategy for the customer. A non-empty customer ID is
// hashed into a stable percentage bucket; an empty ID falls back to a
// weighted random draw.
func (s *Selector) Select(customerID string) domain.PricingStrategy {
	if customerID == "" {
		return pickBucket(rand.IntN(100))
	}

	h := fnv.New32a()
	h.Write([]byte(customerID))
	return pickBucket(int(h.Sum32() % 100))
}

// pickBucket walks the weight table in declaration order until the bucket
// falls inside a strategy's slice of the 0-99 range.
func pickBucket(bucket int) domain.PricingStrategy {
	upper := 0
	for _, strategy := range domain.Strategies() {
		upper += strategyWeights[strategy]
		if bucket < upper {
			return strategy
		}
	}
	return domain.StrategyValue
}

// Apply rebuilds the breakdown with the strategy's labor factor applied.
func (s *Selector) Apply(b domain.PricingBreakdown, strategy domain.PricingStrategy) (domain.PricingBreakdown, error) {
	factor, ok := laborFactors[strategy]
	if !ok {
		factor = 1.0
	}
	return domain.NewPricingBreakdown(b.Labor*factor, b.Equipment, b.Materials, b.Travel)
}

// RecordFeedback folds one outcome score into the strategy's running mean.
func (s *Selector) RecordFeedback(strategy domain.PricingStrategy, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stats[strategy]
	if !ok {
		st = &StrategyStats{}
		s.stats[strategy] = st
	}
	st.Count++
	st.MeanScore += (score - st.MeanScore) / float64(st.Count)
}

// Report returns a copy of the per-strategy feedback aggregates.
func (s *Selector) Report() map[domain.PricingStrategy]StrategyStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[domain.PricingStrategy]StrategyStats, len(s.stats))
	for strategy, st := range s.stats {
		out[strategy] = *st
	}
	return out
}
