package quote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/llm/cache"
	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/observability"
)

// maxQuoteOptions caps how many quotes GenerateMultipleQuotes returns.
const maxQuoteOptions = 3

// summaryMaxLength bounds the generated customer-facing summary.
const summaryMaxLength = 150

// standardTerms is attached to every quote.
var standardTerms = []string{
	"Quote valid for 30 days from issue.",
	"Final price confirmed after on-site inspection.",
	"Water and power access to be provided on site.",
	"Payment due within 14 days of job completion.",
}

// upsellsByService suggests adjacent services per primary service type.
var upsellsByService = map[string][]string{
	"pressure_washing":     {"window cleaning add-on", "gutter cleaning", "driveway sealing"},
	"window_cleaning":      {"screen and track cleaning", "pressure washing add-on"},
	"gutter_cleaning":      {"gutter guard installation", "roof inspection"},
	"roof_cleaning":        {"gutter cleaning", "moss prevention treatment"},
	"solar_panel_cleaning": {"annual maintenance plan", "roof cleaning add-on"},
}

// QuoteRequest is the caller's input to the quote pipeline.
type QuoteRequest struct {
	Description string              `json:"description"`
	Property    domain.PropertyInfo `json:"property"`
	Customer    domain.CustomerInfo `json:"customer"`
}

// Service runs the quote pipeline: classify, price, validate, apply the
// customer's experiment strategy, enrich, cache.
type Service struct {
	analyzer *Analyzer
	engine   *Engine
	selector *Selector

	cache     *cache.ResponseCache
	generator llm.Client
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithCache enables quote caching through the shared response cache.
func WithCache(c *cache.ResponseCache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithGenerator enables prose enrichment of quotes. Enrichment is strictly
// best effort: generation failures never fail the quote.
func WithGenerator(g llm.Client) ServiceOption {
	return func(s *Service) { s.generator = g }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithMetrics enables quote metrics.
func WithMetrics(m *observability.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// NewService wires the quote pipeline.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		analyzer: NewAnalyzer(),
		engine:   NewEngine(),
		selector: NewSelector(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "quote")
	return s
}

// GenerateServiceQuote produces one quote for the request. Identical
// requests within the cache TTL return the cached quote with CacheHit set.
func (s *Service) GenerateServiceQuote(ctx context.Context, req QuoteRequest) (*domain.EnhancedQuote, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: empty job description", domain.ErrInvalidRequest)
	}

	fingerprint := cache.QuoteFingerprint(req.Description, req.Property, req.Customer.CustomerID)
	if s.cache != nil {
		if cached, ok := s.cache.GetQuote(ctx, fingerprint); ok {
			if s.metrics != nil {
				s.metrics.IncrCacheHit("quote")
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.IncrCacheMiss("quote")
		}
	}

	assessment := s.analyzer.Classify(req.Description, req.Property)
	property := s.analyzer.AnalyzeProperty(req.Description, req.Property)

	base, err := s.engine.Price(assessment, property)
	if err != nil {
		return nil, fmt.Errorf("generate quote: %w", err)
	}

	strategy := s.selector.Select(req.Customer.CustomerID)
	quote, err := s.buildQuote(assessment, property, base, strategy)
	if err != nil {
		return nil, fmt.Errorf("generate quote: %w", err)
	}

	s.enrich(ctx, quote, req)

	if s.cache != nil {
		s.cache.PutQuote(ctx, fingerprint, quote)
	}
	if s.metrics != nil {
		s.metrics.RecordQuote(string(quote.Strategy), quote.ServiceType, quote.TotalPrice)
	}
	s.logger.Info("quote generated",
		"quote_id", quote.QuoteID,
		"service_type", quote.ServiceType,
		"complexity", assessment.Complexity.String(),
		"strategy", string(strategy),
		"total", quote.TotalPrice,
	)
	return quote, nil
}

// GenerateMultipleQuotes prices the same request under up to maxQuoteOptions
// distinct strategies, sorted by descending confidence then ascending total
// so the most defensible option leads. The customer's assigned strategy is
// always included.
func (s *Service) GenerateMultipleQuotes(ctx context.Context, req QuoteRequest, count int) ([]*domain.EnhancedQuote, error) {
	if count <= 0 || count > maxQuoteOptions {
		count = maxQuoteOptions
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: empty job description", domain.ErrInvalidRequest)
	}

	assessment := s.analyzer.Classify(req.Description, req.Property)
	property := s.analyzer.AnalyzeProperty(req.Description, req.Property)

	base, err := s.engine.Price(assessment, property)
	if err != nil {
		return nil, fmt.Errorf("generate quotes: %w", err)
	}

	assigned := s.selector.Select(req.Customer.CustomerID)
	strategies := []domain.PricingStrategy{assigned}
	for _, strategy := range domain.Strategies() {
		if len(strategies) == count {
			break
		}
		if strategy != assigned {
			strategies = append(strategies, strategy)
		}
	}

	quotes := make([]*domain.EnhancedQuote, 0, len(strategies))
	for _, strategy := range strategies {
		quote, err := s.buildQuote(assessment, property, base, strategy)
		if err != nil {
			return nil, fmt.Errorf("generate quotes: %w", err)
		}
		quotes = append(quotes, quote)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].Confidence != quotes[j].Confidence {
			return quotes[i].Confidence > quotes[j].Confidence
		}
		return quotes[i].TotalPrice < quotes[j].TotalPrice
	})
	return quotes, nil
}

// RecordFeedback forwards a post-quote outcome score to the strategy
// experiment.
func (s *Service) RecordFeedback(strategy domain.PricingStrategy, score float64) {
	s.selector.RecordFeedback(strategy, score)
}

// StrategyReport returns the per-strategy feedback aggregates.
func (s *Service) StrategyReport() map[domain.PricingStrategy]StrategyStats {
	return s.selector.Report()
}

// buildQuote applies the strategy to the base breakdown and assembles the
// full quote, including alternatives priced under the remaining strategies.
func (s *Service) buildQuote(assessment domain.ServiceAssessment, property domain.PropertyAnalysis, base domain.PricingBreakdown, strategy domain.PricingStrategy) (*domain.EnhancedQuote, error) {
	adjusted, err := s.selector.Apply(base, strategy)
	if err != nil {
		return nil, err
	}
	confidence, recommendations := s.engine.Validate(adjusted)

	var alternatives []domain.PricingOption
	for _, alt := range domain.Strategies() {
		if alt == strategy {
			continue
		}
		altBreakdown, err := s.selector.Apply(base, alt)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, domain.PricingOption{
			Strategy: alt,
			Total:    altBreakdown.Total,
		})
	}

	quote := &domain.EnhancedQuote{
		QuoteID:      uuid.NewString(),
		ServiceType:  assessment.ServiceType,
		BasePrice:    base.Total,
		TotalPrice:   adjusted.Total,
		Assessment:   assessment,
		Property:     property,
		Breakdown:    adjusted,
		Strategy:     strategy,
		Confidence:   confidence,
		Alternatives: alternatives,
		Upsells:      append(append([]string(nil), upsellsByService[assessment.ServiceType]...), recommendations...),
		Terms:        append([]string(nil), standardTerms...),
		CreatedAt:    time.Now().UTC(),
	}
	return quote, nil
}

// enrich asks the generation orchestrator for a short customer-facing
// summary. Any failure is logged and the quote ships without a summary.
func (s *Service) enrich(ctx context.Context, quote *domain.EnhancedQuote, req QuoteRequest) {
	if s.generator == nil {
		return
	}

	genReq := &domain.GenerationRequest{
		Prompt: fmt.Sprintf(
			"Write a short customer-facing summary of this quote. Service: %s. Complexity: %s. Estimated hours: %.1f. Total price: $%.2f including tax.",
			quote.ServiceType, quote.Assessment.Complexity, quote.Assessment.EstimatedHours, quote.TotalPrice,
		),
		Context:     req.Description,
		Category:    domain.CategoryServiceEstimate,
		Tone:        "professional",
		MaxLength:   summaryMaxLength,
		Temperature: 0.6,
		RequesterID: req.Customer.CustomerID,
	}

	result, err := s.generator.GenerateText(ctx, genReq)
	if err != nil {
		s.logger.Warn("quote enrichment failed", "quote_id", quote.QuoteID, "error", err)
		return
	}
	quote.Summary = result.Text
}
