package llm

import (
	"context"
	"time"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// healthySuccessRate is the failure-ratio threshold below which a provider
// reads as unhealthy.
const healthySuccessRate = 0.5

// engage marks one provider visit: the attempt counter moves once per
// provider engagement, not once per retry.
func (s *providerState) engage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Attempts++
	s.metrics.LastCall = time.Now()
}

// recordSuccess folds a successful call into the counters. Average latency
// is a running mean over successful calls.
func (s *providerState) recordSuccess(result *domain.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Successes++
	s.metrics.TotalTokens += result.TokensUsed
	s.metrics.TotalCostMilliCents += result.CostMilliCents
	s.metrics.AvgLatency += (result.Latency - s.metrics.AvgLatency) / time.Duration(s.metrics.Successes)
	s.metrics.LastCall = time.Now()
	s.lastError = ""
}

// recordFailure counts one abandoned engagement, whatever the retry count.
func (s *providerState) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.Failures++
	s.metrics.LastCall = time.Now()
	if err != nil {
		s.lastError = err.Error()
	}
}

// snapshot returns a copy of the counters and the last error under the lock.
func (s *providerState) snapshot() (domain.ProviderMetrics, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.metrics, s.lastError
}

// GetMetrics returns a copy of every provider's counters. The copies are
// detached; readers never race with orchestrator updates.
func (c *client) GetMetrics() map[string]domain.ProviderMetrics {
	out := make(map[string]domain.ProviderMetrics, len(c.states))
	for name, state := range c.states {
		m, _ := state.snapshot()
		out[name] = m
	}
	return out
}

// HealthCheck derives per-provider health from recorded attempts and the
// circuit breaker state. An idle provider reads healthy; an open breaker
// always reads unhealthy.
func (c *client) HealthCheck(_ context.Context) map[string]domain.ProviderHealth {
	out := make(map[string]domain.ProviderHealth, len(c.states))
	for name, state := range c.states {
		m, lastErr := state.snapshot()
		healthy := m.SuccessRate() >= healthySuccessRate
		if c.transport.BreakerState(name) == "open" {
			healthy = false
		}
		out[name] = domain.ProviderHealth{
			Healthy:    healthy,
			AvgLatency: m.AvgLatency,
			LastError:  lastErr,
		}
	}
	return out
}

// CacheHealth pings the cache backend and snapshots its degradation state.
func (c *client) CacheHealth(ctx context.Context) domain.CacheHealth {
	healthy := c.cache.Healthy(ctx)
	stats := c.cache.Stats()
	return domain.CacheHealth{
		Healthy:   healthy,
		Degraded:  stats.Degraded,
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Errors:    stats.Errors,
		LastError: stats.LastError,
	}
}
