package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
)

// Router selects the adapter for a provider name.
type Router interface {
	Pick(provider string) (ProviderAdapter, error)
}

// Config controls the shared transport behavior.
type Config struct {
	// HTTPTimeout is the default per-attempt timeout when a request carries none.
	HTTPTimeout time.Duration `json:"http_timeout"`

	// PaceRequestsPerSecond throttles outbound HTTP across all providers.
	// This is client-side smoothing, distinct from the per-provider
	// admission windows; zero disables pacing.
	PaceRequestsPerSecond float64 `json:"pace_requests_per_second"`

	// PaceBurst is the pacer's burst allowance.
	PaceBurst int `json:"pace_burst"`

	// BreakerEnabled turns per-provider circuit breaking on.
	BreakerEnabled bool `json:"breaker_enabled"`
}

// Pipeline executes normalized requests against providers. It owns the HTTP
// client, the outbound pacer, and one circuit breaker per provider.
type Pipeline struct {
	client *http.Client
	router Router
	pacer  *rate.Limiter
	cfg    Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewPipeline creates a transport pipeline. A nil httpClient gets a default
// client with the configured timeout.
func NewPipeline(cfg Config, router Router, httpClient *http.Client) *Pipeline {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	var pacer *rate.Limiter
	if cfg.PaceRequestsPerSecond > 0 {
		burst := cfg.PaceBurst
		if burst < 1 {
			burst = 1
		}
		pacer = rate.NewLimiter(rate.Limit(cfg.PaceRequestsPerSecond), burst)
	}

	return &Pipeline{
		client:   httpClient,
		router:   router,
		pacer:    pacer,
		cfg:      cfg,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

// Do executes one provider attempt: pace, check the breaker, build, send,
// parse, and measure latency. Returned errors are already classified for the
// orchestrator's retry/skip decision.
func (p *Pipeline) Do(ctx context.Context, req *Request) (*Response, error) {
	if p.pacer != nil {
		if err := p.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("pacer wait: %w", err)
		}
	}

	adapter, err := p.router.Pick(req.Provider)
	if err != nil {
		return nil, err
	}

	reqCtx := ctx
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.cfg.HTTPTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	call := func() (*Response, error) {
		httpReq, err := adapter.Build(reqCtx, req)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		start := time.Now()
		httpResp, err := p.client.Do(httpReq)
		latency := time.Since(start)
		if err != nil {
			// An expired attempt deadline with a live parent context is a
			// provider timeout, not spent caller budget.
			if reqCtx.Err() != nil && ctx.Err() == nil {
				return nil, &llmerrors.ProviderError{
					Provider: req.Provider,
					Message:  fmt.Sprintf("attempt timed out: %v", err),
					Type:     llmerrors.ErrorTypeTimeout,
				}
			}
			return nil, fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = httpResp.Body.Close() }()

		resp, err := adapter.Parse(httpResp)
		if err != nil {
			return nil, err
		}
		resp.Usage.LatencyMs = latency.Milliseconds()
		return resp, nil
	}

	if !p.cfg.BreakerEnabled {
		return call()
	}

	breaker := p.breakerFor(req.Provider)
	out, err := breaker.Execute(func() (any, error) {
		resp, err := call()
		if err != nil && !countsAsBreakerFailure(err) {
			// Rate limits and permanent request errors carry no signal
			// about provider health; report success to the breaker and
			// smuggle the error out through the result.
			return breakerBypass{err: err}, nil
		}
		return resp, err
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("%w: %s", llmerrors.ErrCircuitOpen, req.Provider)
		}
		return nil, err
	}
	if bypass, ok := out.(breakerBypass); ok {
		return nil, bypass.err
	}
	return out.(*Response), nil
}

// breakerBypass carries a non-health error through gobreaker's success path.
type breakerBypass struct{ err error }

// countsAsBreakerFailure reports whether the error should trip the provider's
// circuit. Only health-related failures (network, timeout, 5xx) count.
func countsAsBreakerFailure(err error) bool {
	if llmerrors.IsRateLimit(err) {
		return false
	}
	return llmerrors.IsRetryable(err)
}

// breakerFor returns the provider's circuit breaker, creating it lazily.
// Thresholds follow the usual failure-ratio trip rule: at least 5 requests
// observed and 60% failing.
func (p *Pipeline) breakerFor(provider string) *gobreaker.CircuitBreaker {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[provider]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
	p.breakers[provider] = cb
	return cb
}

// BreakerState returns the provider's breaker state label, or "closed" when
// breaking is disabled or the breaker was never exercised.
func (p *Pipeline) BreakerState(provider string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[provider]; ok {
		return cb.State().String()
	}
	return gobreaker.StateClosed.String()
}
