package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

func fingerprintRequest() *domain.GenerationRequest {
	return &domain.GenerationRequest{
		Prompt:      "Summarize this job for the customer.",
		Context:     "two storey house, moderate staining",
		Category:    domain.CategoryServiceEstimate,
		Tone:        "professional",
		MaxLength:   150,
		Temperature: 0.7,
	}
}

func TestFingerprintStability(t *testing.T) {
	a := fingerprintRequest()
	b := fingerprintRequest()
	assert.Equal(t, Fingerprint(a), Fingerprint(b), "identical requests share a key")
	assert.True(t, strings.HasPrefix(Fingerprint(a), "qm:gen:"))
}

func TestFingerprintIgnoresCallerIdentity(t *testing.T) {
	a := fingerprintRequest()
	b := fingerprintRequest()
	b.RequesterID = "user-42"
	b.SessionID = "session-9"

	assert.Equal(t, Fingerprint(a), Fingerprint(b),
		"requester and session must not break cache equivalence")
}

func TestFingerprintSensitiveFields(t *testing.T) {
	base := Fingerprint(fingerprintRequest())

	tests := []struct {
		name   string
		mutate func(*domain.GenerationRequest)
	}{
		{"prompt", func(r *domain.GenerationRequest) { r.Prompt = "Different prompt." }},
		{"context", func(r *domain.GenerationRequest) { r.Context = "different context" }},
		{"category", func(r *domain.GenerationRequest) { r.Category = domain.CategoryGeneral }},
		{"tone", func(r *domain.GenerationRequest) { r.Tone = "casual" }},
		{"max length", func(r *domain.GenerationRequest) { r.MaxLength = 151 }},
		{"temperature", func(r *domain.GenerationRequest) { r.Temperature = 0.8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fingerprintRequest()
			tt.mutate(req)
			assert.NotEqual(t, base, Fingerprint(req))
		})
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	// Length prefixing must keep adjacent fields unambiguous.
	a := fingerprintRequest()
	a.Prompt = "ab"
	a.Context = "c"

	b := fingerprintRequest()
	b.Prompt = "a"
	b.Context = "bc"

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}

func TestQuoteFingerprint(t *testing.T) {
	property := domain.PropertyInfo{
		PropertyType: "commercial_office",
		SizeCategory: "large",
		Storeys:      3,
	}

	base := QuoteFingerprint("Pressure wash the facade", property, "cust-1")
	assert.True(t, strings.HasPrefix(base, "qm:quote:"))

	// Description comparison is case- and whitespace-insensitive.
	assert.Equal(t, base, QuoteFingerprint("  pressure WASH the facade ", property, "cust-1"))

	other := property
	other.Storeys = 4
	assert.NotEqual(t, base, QuoteFingerprint("Pressure wash the facade", other, "cust-1"))

	eco := property
	eco.EcoFriendlyRequired = true
	assert.NotEqual(t, base, QuoteFingerprint("Pressure wash the facade", eco, "cust-1"))

	// Customers on different strategy arms never share a cached quote.
	assert.NotEqual(t, base, QuoteFingerprint("Pressure wash the facade", property, "cust-2"))
	assert.NotEqual(t, base, QuoteFingerprint("Pressure wash the facade", property, ""))
}
