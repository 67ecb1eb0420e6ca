package llm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/cache"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/llmerrors"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/providers"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/retry"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/transport"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/scoring"
)

// temperatureStep is the per-variant temperature nudge for variant generation.
const temperatureStep = 0.1

// maxConcurrentVariants bounds the variant fan-out.
const maxConcurrentVariants = 4

// GenerateText runs the request state machine: cache lookup, then the
// provider fallback chain, then cache store. A cache hit is terminal and
// touches no provider metrics. The only fatal outcome is exhausting every
// provider; that error names the last underlying failure.
func (c *client) GenerateText(ctx context.Context, req *domain.GenerationRequest, opts ...RequestOption) (*domain.GenerationResult, error) {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	fingerprint := cache.Fingerprint(req)
	useCache := c.cfg.Cache.Enabled && !co.bypassCache
	if useCache {
		if result, ok := c.cache.Get(ctx, fingerprint); ok {
			if c.metrics != nil {
				c.metrics.IncrCacheHit("generation")
			}
			return result, nil
		}
		if c.metrics != nil {
			c.metrics.IncrCacheMiss("generation")
		}
	}

	var lastErr error
	attempted := make([]string, 0, len(c.cfg.ProviderPriority))

	for _, name := range c.attemptOrder(co.preferredProvider) {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		// Local admission denial skips the provider without touching its
		// failure metrics.
		if err := c.limiters.Check(name); err != nil {
			c.logger.Debug("provider window full, skipping", "provider", name)
			attempted = append(attempted, name)
			lastErr = err
			continue
		}

		result, err := c.tryProvider(ctx, name, req)
		attempted = append(attempted, name)
		if err == nil {
			if useCache {
				c.cache.Put(ctx, fingerprint, result)
			}
			c.logger.Info("generation complete",
				"provider", name,
				"model", result.Model,
				"tokens", result.TokensUsed,
				"cost_usd", result.CostDollars(),
				"quality", result.QualityScore)
			return result, nil
		}
		lastErr = err
		c.logger.Warn("provider failed, falling back",
			"provider", name, "error", err)
	}

	return nil, &llmerrors.ExhaustedError{Attempted: attempted, LastErr: lastErr}
}

// validateRequest applies structural validation plus the empty-prompt policy:
// an empty prompt never reaches a provider unless explicitly allowed.
func (c *client) validateRequest(req *domain.GenerationRequest) error {
	err := req.Validate()
	if errors.Is(err, domain.ErrEmptyPrompt) && c.cfg.AllowEmptyPrompt {
		return nil
	}
	return err
}

// attemptOrder returns the provider attempt order: the preferred provider
// first when it is in the priority list, then the remaining priority list in
// fixed order. A preference outside the priority list is ignored; only
// prioritized providers carry state.
func (c *client) attemptOrder(preferred string) []string {
	if preferred == "" {
		return c.cfg.ProviderPriority
	}
	if _, ok := c.states[preferred]; !ok {
		return c.cfg.ProviderPriority
	}

	order := make([]string, 0, len(c.cfg.ProviderPriority))
	order = append(order, preferred)
	for _, name := range c.cfg.ProviderPriority {
		if name != preferred {
			order = append(order, name)
		}
	}
	return order
}

// tryProvider runs up to Retry.MaxAttempts calls against one provider with
// exponential backoff between attempts. Only transient errors retry; rate
// limits and permanent errors abandon the provider immediately. Whatever the
// retry count, an abandoned provider records exactly one failure.
func (c *client) tryProvider(ctx context.Context, name string, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	pcfg := c.cfg.Providers[name]
	treq := &transport.Request{
		Provider:     name,
		Model:        pcfg.Model,
		Prompt:       req.Prompt,
		SystemPrompt: buildSystemPrompt(req),
		MaxTokens:    req.MaxLength,
		Temperature:  req.Temperature,
		Timeout:      pcfg.Timeout,
	}

	state := c.states[name]
	state.engage()

	maxAttempts := c.cfg.Retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.transport.Do(ctx, treq)
		if err == nil {
			result := c.buildResult(name, resp, req)
			state.recordSuccess(result)
			if c.metrics != nil {
				c.metrics.RecordGeneration(name, result.Latency, result.TokensUsed)
			}
			return result, nil
		}

		lastErr = err
		if llmerrors.IsRateLimit(err) || !llmerrors.IsRetryable(err) {
			break
		}
		if attempt == maxAttempts {
			break
		}

		delay := retry.Backoff(attempt, c.cfg.Retry, err)
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			attempt = maxAttempts // Abandon; the failure is recorded below.
		case <-time.After(delay):
		}
	}

	state.recordFailure(lastErr)
	if c.metrics != nil {
		c.metrics.IncrProviderError(name)
	}
	return nil, lastErr
}

// buildResult assembles the caller-owned result from a provider response.
func (c *client) buildResult(provider string, resp *transport.Response, req *domain.GenerationRequest) *domain.GenerationResult {
	model := resp.Model
	if model == "" {
		model = c.cfg.Providers[provider].Model
	}

	return &domain.GenerationResult{
		Text:           resp.Content,
		Provider:       provider,
		Model:          model,
		TokensUsed:     resp.Usage.TotalTokens,
		CostMilliCents: providers.CostMilliCents(provider, model, resp.Usage),
		QualityScore:   scoring.Score(resp.Content, req),
		Latency:        time.Duration(resp.Usage.LatencyMs) * time.Millisecond,
		Timestamp:      time.Now(),
		RequestID:      uuid.NewString(),
		CacheHit:       false,
	}
}

// GenerateVariants fans out count cache-bypassing requests with the
// temperature nudged up temperatureStep per variant. A failing variant is
// dropped, not propagated; only all variants failing is an error. Survivors
// come back sorted by descending quality score.
func (c *client) GenerateVariants(ctx context.Context, req *domain.GenerationRequest, count int) ([]*domain.GenerationResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: variant count must be positive, got %d", domain.ErrInvalidRequest, count)
	}

	results := make([]*domain.GenerationResult, count)
	errs := make([]error, count)

	var g errgroup.Group
	g.SetLimit(maxConcurrentVariants)

	for i := range count {
		g.Go(func() error {
			variant := *req
			variant.Temperature = min(domain.MaxTemperature, req.Temperature+temperatureStep*float64(i))
			results[i], errs[i] = c.GenerateText(ctx, &variant, withCacheBypass())
			return nil
		})
	}
	_ = g.Wait() // Workers never return errors; failures land in errs.

	survivors := make([]*domain.GenerationResult, 0, count)
	var lastErr error
	for i := range count {
		if errs[i] != nil {
			lastErr = errs[i]
			continue
		}
		survivors = append(survivors, results[i])
	}

	if len(survivors) == 0 {
		return nil, fmt.Errorf("%w: %w", llmerrors.ErrAllVariantsFailed, lastErr)
	}

	sort.SliceStable(survivors, func(a, b int) bool {
		return survivors[a].QualityScore > survivors[b].QualityScore
	})
	return survivors, nil
}
