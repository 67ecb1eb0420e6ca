package domain

import (
	"fmt"
	"math"
	"time"
)

// ComplexityTier grades how involved a job is. The integer ordering matters:
// ties in keyword scoring resolve to the lower tier, so the enum must stay
// sorted from simplest to most specialized.
type ComplexityTier int

const (
	// ComplexitySimple covers routine single-storey ground-level work.
	ComplexitySimple ComplexityTier = iota

	// ComplexityModerate covers jobs with some height or surface variety.
	ComplexityModerate

	// ComplexityComplex covers multi-storey or heavily soiled jobs.
	ComplexityComplex

	// ComplexitySpecialized covers jobs needing rigging, permits, or
	// industrial equipment.
	ComplexitySpecialized
)

// String returns the lower-case tier label used in quotes and logs.
func (c ComplexityTier) String() string {
	switch c {
	case ComplexitySimple:
		return "simple"
	case ComplexityModerate:
		return "moderate"
	case ComplexityComplex:
		return "complex"
	case ComplexitySpecialized:
		return "specialized"
	default:
		return fmt.Sprintf("complexity(%d)", int(c))
	}
}

// AccessDifficulty grades how hard the job site is to reach and work at.
// Ordered easiest-first for the same tie-break reason as ComplexityTier.
type AccessDifficulty int

const (
	AccessEasy AccessDifficulty = iota
	AccessModerate
	AccessDifficult
	AccessExtreme
)

// String returns the lower-case access label.
func (a AccessDifficulty) String() string {
	switch a {
	case AccessEasy:
		return "easy"
	case AccessModerate:
		return "moderate"
	case AccessDifficult:
		return "difficult"
	case AccessExtreme:
		return "extreme"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// PricingStrategy labels the A/B-tested multiplier applied to labor.
type PricingStrategy string

const (
	StrategyCompetitive PricingStrategy = "competitive"
	StrategyValue       PricingStrategy = "value"
	StrategyPremium     PricingStrategy = "premium"
	StrategyDynamic     PricingStrategy = "dynamic"
)

// Strategies lists every pricing strategy in declaration order.
func Strategies() []PricingStrategy {
	return []PricingStrategy{StrategyCompetitive, StrategyValue, StrategyPremium, StrategyDynamic}
}

// ServiceAssessment is the ComplexityAnalyzer's structured read of a free-text
// job description.
type ServiceAssessment struct {
	// ServiceType is the inferred service ("pressure_washing", "window_cleaning", ...).
	ServiceType string `json:"service_type" validate:"required"`

	// Complexity is the arg-max keyword tier.
	Complexity ComplexityTier `json:"complexity"`

	// Access is the derived site-access difficulty.
	Access AccessDifficulty `json:"access"`

	// RiskFactors lists matched hazard phrases, each one nudging labor up 10%.
	RiskFactors []string `json:"risk_factors,omitempty"`

	// SpecialRequirements lists matched non-hazard constraints (eco products,
	// permits, after-hours work).
	SpecialRequirements []string `json:"special_requirements,omitempty"`

	// EstimatedHours is the labor-hour estimate, strictly positive and
	// rounded to one decimal.
	EstimatedHours float64 `json:"estimated_hours" validate:"gt=0"`
}

// Validate checks the assessment's structural constraints.
func (a *ServiceAssessment) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAssessment, err)
	}
	return nil
}

// PropertyAnalysis is the structured read of the property the job runs on.
type PropertyAnalysis struct {
	PropertyType string `json:"property_type"`
	SizeCategory string `json:"size_category"`

	// AccessScore and ConditionScore are normalized 0.0 (worst) to 1.0 (best).
	AccessScore    float64 `json:"access_score" validate:"gte=0,lte=1"`
	ConditionScore float64 `json:"condition_score" validate:"gte=0,lte=1"`

	SafetyConsiderations []string `json:"safety_considerations,omitempty"`
}

// PropertyInfo is the caller-supplied description of the job site.
type PropertyInfo struct {
	// PropertyType is one of the keys in the pricing property tables
	// ("residential_house", "commercial_office", ...). Unknown types fall
	// back to the residential defaults.
	PropertyType string `json:"property_type"`

	// SizeCategory is "small", "medium", "large", or "xlarge".
	SizeCategory string `json:"size_category"`

	// Storeys is the building height in floors; zero means unknown.
	Storeys int `json:"storeys,omitempty"`

	// EcoFriendlyRequired requests biodegradable products, which shifts the
	// materials cost.
	EcoFriendlyRequired bool `json:"eco_friendly_required,omitempty"`

	// Notes carries any extra free text considered during classification.
	Notes string `json:"notes,omitempty"`
}

// CustomerInfo identifies the requesting customer for strategy selection.
type CustomerInfo struct {
	CustomerID string `json:"customer_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
}

// PricingBreakdown itemizes one quote. All amounts are dollars rounded to
// cents. Invariants, enforced by NewPricingBreakdown:
//
//	Subtotal == Labor + Equipment + Materials + Travel
//	Total    == Subtotal + Tax
type PricingBreakdown struct {
	Labor     float64 `json:"labor" validate:"gte=0"`
	Equipment float64 `json:"equipment" validate:"gte=0"`
	Materials float64 `json:"materials" validate:"gte=0"`
	Travel    float64 `json:"travel" validate:"gte=0"`
	Subtotal  float64 `json:"subtotal" validate:"gte=0"`
	Tax       float64 `json:"tax" validate:"gte=0"`
	Total     float64 `json:"total" validate:"gte=0"`
}

// TaxRate is the fixed tax fraction applied to every subtotal.
const TaxRate = 0.10

// RoundCents rounds a dollar amount to the nearest cent.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// NewPricingBreakdown assembles a breakdown from its cost components,
// computing subtotal, tax, and total so the invariants hold by construction.
// Components are rounded to cents before summing so the recorded parts always
// add up exactly to the recorded subtotal.
func NewPricingBreakdown(labor, equipment, materials, travel float64) (PricingBreakdown, error) {
	b := PricingBreakdown{
		Labor:     RoundCents(labor),
		Equipment: RoundCents(equipment),
		Materials: RoundCents(materials),
		Travel:    RoundCents(travel),
	}
	b.Subtotal = RoundCents(b.Labor + b.Equipment + b.Materials + b.Travel)
	b.Tax = RoundCents(b.Subtotal * TaxRate)
	b.Total = RoundCents(b.Subtotal + b.Tax)

	if err := validate.Struct(&b); err != nil {
		return PricingBreakdown{}, fmt.Errorf("%w: %w", ErrInvalidBreakdown, err)
	}
	return b, nil
}

// PricingOption is an alternative total under a different strategy, offered
// alongside the selected one.
type PricingOption struct {
	Strategy PricingStrategy `json:"strategy"`
	Total    float64         `json:"total"`
}

// EnhancedQuote is the pricing pipeline's terminal output: one immutable
// quote per request, cached by request fingerprint.
type EnhancedQuote struct {
	QuoteID     string            `json:"quote_id"`
	ServiceType string            `json:"service_type"`
	BasePrice   float64           `json:"base_price"`
	TotalPrice  float64           `json:"total_price"`
	Assessment  ServiceAssessment `json:"assessment"`
	Property    PropertyAnalysis  `json:"property"`
	Breakdown   PricingBreakdown  `json:"breakdown"`
	Strategy    PricingStrategy   `json:"strategy"`

	// Confidence is the validation step's 0.0-1.0 score for the breakdown.
	Confidence float64 `json:"confidence"`

	// Alternatives are the other strategies applied to the same breakdown.
	Alternatives []PricingOption `json:"alternatives,omitempty"`

	// Upsells suggests adjacent services inferred from the assessment.
	Upsells []string `json:"upsells,omitempty"`

	// Terms is the standard terms list attached to every quote.
	Terms []string `json:"terms,omitempty"`

	// Summary is optional generated prose describing the quote. Empty when
	// enrichment was disabled or failed; enrichment failure never fails the quote.
	Summary string `json:"summary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	CacheHit  bool      `json:"cache_hit"`
}
