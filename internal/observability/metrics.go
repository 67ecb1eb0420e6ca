package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exported by the core. A dedicated
// registry avoids "duplicate collector" panics when NewMetrics is called more
// than once (e.g. in tests).
type Metrics struct {
	// Registry owns these metrics; the host's /metrics endpoint scrapes it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	providerErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	tokensUsed      *prometheus.CounterVec
	quotesTotal     *prometheus.CounterVec
	quoteValue      *prometheus.HistogramVec
}

// NewMetrics creates the registry and registers all collectors in it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qm_generation_duration_seconds",
				Help:    "Duration of generation requests by provider.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		providerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qm_provider_errors_total",
				Help: "Total provider failures after retries, by provider.",
			},
			[]string{"provider"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qm_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qm_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qm_llm_tokens_total",
				Help: "Total LLM tokens consumed, by provider.",
			},
			[]string{"provider"},
		),
		quotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qm_quotes_total",
				Help: "Total service quotes produced, by strategy.",
			},
			[]string{"strategy"},
		),
		quoteValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qm_quote_total_dollars",
				Help:    "Distribution of quoted totals in dollars.",
				Buckets: prometheus.ExponentialBuckets(50, 2, 10),
			},
			[]string{"service_type"},
		),
	}
}

// RecordGeneration records one successful provider call.
func (m *Metrics) RecordGeneration(provider string, d time.Duration, tokens int64) {
	m.requestDuration.WithLabelValues(provider).Observe(d.Seconds())
	m.tokensUsed.WithLabelValues(provider).Add(float64(tokens))
}

// IncrProviderError increments the failure counter for a provider.
func (m *Metrics) IncrProviderError(provider string) {
	m.providerErrors.WithLabelValues(provider).Inc()
}

// IncrCacheHit increments the hit counter for the named cache.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the miss counter for the named cache.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordQuote records one produced quote.
func (m *Metrics) RecordQuote(strategy, serviceType string, total float64) {
	m.quotesTotal.WithLabelValues(strategy).Inc()
	m.quoteValue.WithLabelValues(serviceType).Observe(total)
}
