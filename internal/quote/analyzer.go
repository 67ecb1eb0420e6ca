// Package quote turns a free-text job description into a structured, priced
// service quote: keyword-driven classification, table-driven pricing, and an
// A/B-tested strategy adjustment, with optional free-text enrichment through
// the generation orchestrator.
package quote

import (
	"math"
	"strings"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// Keyword hit weights for complexity scoring. Topical and scale evidence
// weigh equally; access phrasing contributes less because it feeds the
// separate access classification too.
const (
	weightTopical = 0.4
	weightScale   = 0.4
	weightAccess  = 0.2
)

// tierKeywords is one complexity tier's scoring table. Tables are data, not
// conditionals, so tiers are testable and extensible in isolation.
type tierKeywords struct {
	tier    domain.ComplexityTier
	topical []string
	scale   []string
	access  []string
}

// complexityTables is ordered lowest tier first. Ordering matters: equal
// scores resolve to the lower tier, an explicit deterministic tie-break.
var complexityTables = []tierKeywords{
	{
		tier:    domain.ComplexitySimple,
		topical: []string{"driveway", "sidewalk", "patio", "fence", "letterbox"},
		scale:   []string{"single storey", "one storey", "ground level", "small"},
		access:  []string{"street level", "easy access"},
	},
	{
		tier:    domain.ComplexityModerate,
		topical: []string{"deck", "gutter", "siding", "mould", "mildew", "solar panel"},
		scale:   []string{"two storey", "2-storey", "second floor", "medium"},
		access:  []string{"ladder", "sloped"},
	},
	{
		tier:    domain.ComplexityComplex,
		topical: []string{"facade", "graffiti", "oil stain", "heavy staining", "render"},
		scale:   []string{"three storey", "3-storey", "third floor", "multi-storey"},
		access:  []string{"scaffold", "harness", "restricted"},
	},
	{
		tier:    domain.ComplexitySpecialized,
		topical: []string{"crane", "rope access", "abseil", "industrial", "high-rise", "heritage"},
		scale:   []string{"extreme height", "tower", "skyscraper"},
		access:  []string{"crane required", "permit", "traffic control"},
	},
}

// accessKeywords maps access difficulty to its evidence phrases, kept
// separate from the complexity tables.
var accessKeywords = []struct {
	level   domain.AccessDifficulty
	phrases []string
}{
	{domain.AccessEasy, []string{"street level", "ground level", "easy access", "open yard"}},
	{domain.AccessModerate, []string{"ladder", "second floor", "narrow", "locked gate"}},
	{domain.AccessDifficult, []string{"steep", "scaffold", "restricted", "fragile roof", "confined"}},
	{domain.AccessExtreme, []string{"extreme height", "crane", "rope access", "abseil", "traffic control"}},
}

// riskPhrases maps description evidence to a named risk factor.
var riskPhrases = []struct {
	phrase string
	risk   string
}{
	{"extreme height", "working at extreme height"},
	{"crane", "crane operation"},
	{"fragile", "fragile surfaces"},
	{"steep", "steep terrain"},
	{"electrical", "proximity to electrical fixtures"},
	{"asbestos", "possible asbestos materials"},
	{"traffic", "adjacent traffic exposure"},
	{"water restriction", "local water restrictions"},
}

// requirementPhrases maps description evidence to a special requirement.
var requirementPhrases = []struct {
	phrase      string
	requirement string
}{
	{"eco", "eco-friendly products"},
	{"biodegradable", "eco-friendly products"},
	{"permit", "council permit"},
	{"after hours", "after-hours scheduling"},
	{"weekend", "weekend scheduling"},
	{"heritage", "heritage-safe methods"},
}

// serviceKeywords maps description evidence to the inferred service type,
// checked in order; the first match wins.
var serviceKeywords = []struct {
	phrase  string
	service string
}{
	{"pressure wash", "pressure_washing"},
	{"power wash", "pressure_washing"},
	{"soft wash", "pressure_washing"},
	{"window", "window_cleaning"},
	{"glass", "window_cleaning"},
	{"gutter", "gutter_cleaning"},
	{"roof", "roof_cleaning"},
	{"solar", "solar_panel_cleaning"},
}

// defaultServiceType is used when no service keyword matches.
const defaultServiceType = "general_exterior_cleaning"

// baseHoursByTier is the labor-hour base before size and property scaling.
var baseHoursByTier = map[domain.ComplexityTier]float64{
	domain.ComplexitySimple:      2.0,
	domain.ComplexityModerate:    4.0,
	domain.ComplexityComplex:     8.0,
	domain.ComplexitySpecialized: 16.0,
}

// sizeMultipliers scales hours and materials by property size.
var sizeMultipliers = map[string]float64{
	"small":  0.75,
	"medium": 1.0,
	"large":  1.5,
	"xlarge": 2.0,
}

// propertyTypeMultipliers scales hours and labor by property type.
var propertyTypeMultipliers = map[string]float64{
	"residential_house":     1.0,
	"residential_apartment": 0.9,
	"commercial_office":     1.3,
	"commercial_retail":     1.2,
	"industrial_warehouse":  1.5,
}

// Analyzer classifies job descriptions into service assessments using the
// keyword tables above. It is stateless and safe for concurrent use.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Classify scores the description against each tier table and derives
// access difficulty, risks, requirements, and estimated hours. The returned
// assessment always has strictly positive hours.
func (a *Analyzer) Classify(description string, property domain.PropertyInfo) domain.ServiceAssessment {
	text := strings.ToLower(description + " " + property.Notes)

	assessment := domain.ServiceAssessment{
		ServiceType:         inferServiceType(text),
		Complexity:          classifyComplexity(text),
		Access:              classifyAccess(text),
		RiskFactors:         matchRisks(text),
		SpecialRequirements: matchRequirements(text, property),
	}
	assessment.EstimatedHours = estimateHours(assessment.Complexity, property)
	return assessment
}

// AnalyzeProperty derives the normalized property view used by pricing.
func (a *Analyzer) AnalyzeProperty(description string, property domain.PropertyInfo) domain.PropertyAnalysis {
	text := strings.ToLower(description + " " + property.Notes)
	access := classifyAccess(text)

	analysis := domain.PropertyAnalysis{
		PropertyType:   normalizePropertyType(property.PropertyType),
		SizeCategory:   normalizeSize(property.SizeCategory),
		AccessScore:    accessScore(access),
		ConditionScore: conditionScore(text),
	}
	for _, r := range matchRisks(text) {
		analysis.SafetyConsiderations = append(analysis.SafetyConsiderations, r)
	}
	return analysis
}

// classifyComplexity picks the arg-max tier over the keyword tables. Tables
// are scanned lowest tier first and the best score is replaced only on a
// strictly greater score, so ties resolve to the lower tier.
func classifyComplexity(text string) domain.ComplexityTier {
	best := domain.ComplexitySimple
	bestScore := -1.0

	for _, table := range complexityTables {
		score := weightTopical*float64(countHits(text, table.topical)) +
			weightScale*float64(countHits(text, table.scale)) +
			weightAccess*float64(countHits(text, table.access))
		if score > bestScore {
			best = table.tier
			bestScore = score
		}
	}
	return best
}

// classifyAccess picks the arg-max access level by phrase hit count, ties to
// the easier level.
func classifyAccess(text string) domain.AccessDifficulty {
	best := domain.AccessEasy
	bestHits := -1

	for _, entry := range accessKeywords {
		hits := countHits(text, entry.phrases)
		if hits > bestHits {
			best = entry.level
			bestHits = hits
		}
	}
	return best
}

// matchRisks collects every risk whose evidence phrase appears in the text.
func matchRisks(text string) []string {
	var risks []string
	for _, entry := range riskPhrases {
		if strings.Contains(text, entry.phrase) {
			risks = append(risks, entry.risk)
		}
	}
	return risks
}

// matchRequirements collects special requirements from the text and the
// property's explicit flags, de-duplicated.
func matchRequirements(text string, property domain.PropertyInfo) []string {
	seen := make(map[string]struct{})
	var requirements []string

	add := func(r string) {
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			requirements = append(requirements, r)
		}
	}

	for _, entry := range requirementPhrases {
		if strings.Contains(text, entry.phrase) {
			add(entry.requirement)
		}
	}
	if property.EcoFriendlyRequired {
		add("eco-friendly products")
	}
	return requirements
}

// inferServiceType returns the first matching service keyword, or the
// default.
func inferServiceType(text string) string {
	for _, entry := range serviceKeywords {
		if strings.Contains(text, entry.phrase) {
			return entry.service
		}
	}
	return defaultServiceType
}

// estimateHours computes base-hours-by-tier scaled by size and property
// type, rounded to one decimal and floored above zero.
func estimateHours(tier domain.ComplexityTier, property domain.PropertyInfo) float64 {
	hours := baseHoursByTier[tier] *
		sizeMultiplier(property.SizeCategory) *
		propertyTypeMultiplier(property.PropertyType)

	hours = math.Round(hours*10) / 10
	if hours < 0.5 {
		hours = 0.5
	}
	return hours
}

// sizeMultiplier looks up the size factor, defaulting to medium.
func sizeMultiplier(size string) float64 {
	if m, ok := sizeMultipliers[normalizeSize(size)]; ok {
		return m
	}
	return 1.0
}

// propertyTypeMultiplier looks up the property factor, defaulting to
// residential.
func propertyTypeMultiplier(propertyType string) float64 {
	if m, ok := propertyTypeMultipliers[normalizePropertyType(propertyType)]; ok {
		return m
	}
	return 1.0
}

func normalizeSize(size string) string {
	s := strings.ToLower(strings.TrimSpace(size))
	if _, ok := sizeMultipliers[s]; ok {
		return s
	}
	return "medium"
}

func normalizePropertyType(propertyType string) string {
	p := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(propertyType, "-", "_")))
	p = strings.ReplaceAll(p, " ", "_")
	if _, ok := propertyTypeMultipliers[p]; ok {
		return p
	}
	return "residential_house"
}

// accessScore maps access difficulty onto a 0-1 ease score.
func accessScore(access domain.AccessDifficulty) float64 {
	switch access {
	case domain.AccessEasy:
		return 0.9
	case domain.AccessModerate:
		return 0.7
	case domain.AccessDifficult:
		return 0.4
	default:
		return 0.15
	}
}

// conditionScore starts optimistic and drops with evidence of neglect.
func conditionScore(text string) float64 {
	score := 0.8
	for _, phrase := range []string{"heavy staining", "neglected", "mould", "mold", "years of", "never cleaned"} {
		if strings.Contains(text, phrase) {
			score -= 0.15
		}
	}
	if score < 0.1 {
		score = 0.1
	}
	return score
}

// countHits counts how many phrases appear in the text.
func countHits(text string, phrases []string) int {
	hits := 0
	for _, p := range phrases {
		if strings.Contains(text, p) {
			hits++
		}
	}
	return hits
}
