package quote

import (
	"fmt"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// Hourly base rates in dollars by service type.
var baseRates = map[string]float64{
	"pressure_washing":          80,
	"window_cleaning":           70,
	"gutter_cleaning":           75,
	"roof_cleaning":             90,
	"solar_panel_cleaning":      85,
	"general_exterior_cleaning": 75,
}

// complexityMultipliers scales labor by tier.
var complexityMultipliers = map[domain.ComplexityTier]float64{
	domain.ComplexitySimple:      1.0,
	domain.ComplexityModerate:    1.25,
	domain.ComplexityComplex:     1.6,
	domain.ComplexitySpecialized: 2.2,
}

// accessMultipliers scales labor and equipment by site access.
var accessMultipliers = map[domain.AccessDifficulty]float64{
	domain.AccessEasy:      1.0,
	domain.AccessModerate:  1.15,
	domain.AccessDifficult: 1.4,
	domain.AccessExtreme:   1.8,
}

// equipmentByTier is the flat equipment charge per tier before the access
// adjustment.
var equipmentByTier = map[domain.ComplexityTier]float64{
	domain.ComplexitySimple:      25,
	domain.ComplexityModerate:    60,
	domain.ComplexityComplex:     150,
	domain.ComplexitySpecialized: 400,
}

// equipmentAccessFactor adjusts equipment for harder site access.
var equipmentAccessFactor = map[domain.AccessDifficulty]float64{
	domain.AccessEasy:      1.0,
	domain.AccessModerate:  1.1,
	domain.AccessDifficult: 1.25,
	domain.AccessExtreme:   1.5,
}

const (
	// riskLaborStep is the per-risk-factor labor uplift.
	riskLaborStep = 0.10

	// materialsPerHour is the consumables cost per labor hour.
	materialsPerHour = 12.0

	// ecoMaterialsFactor is the eco-product markup on materials.
	ecoMaterialsFactor = 1.35

	// travelBase is the flat call-out charge.
	travelBase = 30.0
)

// travelSurcharges adds a site surcharge on top of the flat call-out.
var travelSurcharges = map[string]float64{
	"commercial_office":    20,
	"commercial_retail":    20,
	"industrial_warehouse": 35,
}

// Plausibility bounds and shares used by Validate. Quotes outside these do
// not fail; they lose confidence and gain a recommendation.
const (
	minPlausibleTotal = 100.0
	maxPlausibleTotal = 50000.0
	maxLaborShare     = 0.85
	minLaborShare     = 0.30
	maxEquipmentShare = 0.40
	maxTravelShare    = 0.20
)

// Engine computes pricing breakdowns from assessments. Stateless and safe
// for concurrent use.
type Engine struct{}

// NewEngine creates a pricing Engine.
func NewEngine() *Engine { return &Engine{} }

// Price builds the itemized breakdown for an assessment and property. The
// returned breakdown satisfies the sum invariants by construction.
func (e *Engine) Price(assessment domain.ServiceAssessment, property domain.PropertyAnalysis) (domain.PricingBreakdown, error) {
	if err := assessment.Validate(); err != nil {
		return domain.PricingBreakdown{}, fmt.Errorf("price assessment: %w", err)
	}

	labor := baseRate(assessment.ServiceType) *
		complexityMultipliers[assessment.Complexity] *
		accessMultipliers[assessment.Access] *
		assessment.EstimatedHours *
		(1 + riskLaborStep*float64(len(assessment.RiskFactors))) *
		propertyTypeMultiplier(property.PropertyType)

	equipment := equipmentByTier[assessment.Complexity] * equipmentAccessFactor[assessment.Access]

	materials := materialsPerHour * assessment.EstimatedHours * sizeMultiplier(property.SizeCategory)
	if hasEcoRequirement(assessment.SpecialRequirements) {
		materials *= ecoMaterialsFactor
	}

	travel := travelBase + travelSurcharges[property.PropertyType]

	return domain.NewPricingBreakdown(labor, equipment, materials, travel)
}

// Validate scores how plausible a breakdown looks and suggests adjustments.
// It never rejects: validation only moves confidence and recommendations.
func (e *Engine) Validate(b domain.PricingBreakdown) (confidence float64, recommendations []string) {
	confidence = 0.95

	if b.Total < minPlausibleTotal {
		confidence -= 0.2
		recommendations = append(recommendations, "total below typical job minimum, confirm scope")
	}
	if b.Total > maxPlausibleTotal {
		confidence -= 0.2
		recommendations = append(recommendations, "total above typical job maximum, consider a site visit")
	}
	if b.Subtotal > 0 {
		laborShare := b.Labor / b.Subtotal
		if laborShare > maxLaborShare {
			confidence -= 0.1
			recommendations = append(recommendations, "labor dominates the quote, review estimated hours")
		}
		if laborShare < minLaborShare {
			confidence -= 0.1
			recommendations = append(recommendations, "labor share unusually low, review equipment and travel charges")
		}
		if b.Equipment/b.Subtotal > maxEquipmentShare {
			confidence -= 0.1
			recommendations = append(recommendations, "equipment share unusually high, confirm rigging needs")
		}
		if b.Travel/b.Subtotal > maxTravelShare {
			confidence -= 0.05
			recommendations = append(recommendations, "travel share unusually high, confirm site location")
		}
	}

	if confidence < 0 {
		confidence = 0
	}
	return confidence, recommendations
}

// baseRate looks up the hourly rate, defaulting to the general service rate.
func baseRate(serviceType string) float64 {
	if r, ok := baseRates[serviceType]; ok {
		return r
	}
	return baseRates[defaultServiceType]
}

func hasEcoRequirement(requirements []string) bool {
	for _, r := range requirements {
		if r == "eco-friendly products" {
			return true
		}
	}
	return false
}
