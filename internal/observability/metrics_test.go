package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsIndependentRegistries(t *testing.T) {
	// A second instance must not panic on duplicate registration.
	a := NewMetrics()
	b := NewMetrics()
	require.NotSame(t, a.Registry, b.Registry)
}

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()

	m.RecordGeneration("openai", 120*time.Millisecond, 30)
	m.RecordGeneration("openai", 80*time.Millisecond, 20)
	m.IncrProviderError("anthropic")
	m.IncrCacheHit("generation")
	m.IncrCacheMiss("generation")
	m.IncrCacheMiss("quote")
	m.RecordQuote("premium", "pressure_washing", 968.00)

	assert.Equal(t, 50.0, testutil.ToFloat64(m.tokensUsed.WithLabelValues("openai")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerErrors.WithLabelValues("anthropic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("generation")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMisses.WithLabelValues("generation"))+
		testutil.ToFloat64(m.cacheMisses.WithLabelValues("quote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.quotesTotal.WithLabelValues("premium")))

	// Histograms register once per family in the private registry.
	count, err := testutil.GatherAndCount(m.Registry,
		"qm_generation_duration_seconds", "qm_quote_total_dollars")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "nonsense", ""} {
		assert.NotNil(t, NewLogger(level))
	}
}
