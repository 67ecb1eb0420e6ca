package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// Key namespaces. Responses and quotes share one store but never collide.
const (
	generationKeyPrefix = "qm:gen:"
	quoteKeyPrefix      = "qm:quote:"
)

// Fingerprint derives the deterministic cache key for a generation request.
// Only semantically relevant fields participate: prompt, context, category,
// tone, max length, and temperature. Requester, session, and per-call
// metadata are excluded so identical requests stay cache-equivalent.
func Fingerprint(req *domain.GenerationRequest) string {
	hasher := sha256.New()
	// A length-prefixed field join prevents ambiguity between adjacent
	// fields ("ab"+"c" vs "a"+"bc").
	for _, field := range []string{
		req.Prompt,
		req.Context,
		string(req.Category),
		req.Tone,
		fmt.Sprintf("%d", req.MaxLength),
		fmt.Sprintf("%.4f", req.Temperature),
	} {
		fmt.Fprintf(hasher, "%d:%s|", len(field), field)
	}
	return generationKeyPrefix + hex.EncodeToString(hasher.Sum(nil))
}

// QuoteFingerprint derives the cache key for a service-quote request from the
// job description, the property fields that influence pricing, and the
// customer ID. The customer ID is part of the key because it selects the
// pricing strategy; two customers on different strategy arms must not share
// a cached quote.
func QuoteFingerprint(description string, property domain.PropertyInfo, customerID string) string {
	hasher := sha256.New()
	for _, field := range []string{
		strings.ToLower(strings.TrimSpace(description)),
		customerID,
		property.PropertyType,
		property.SizeCategory,
		fmt.Sprintf("%d", property.Storeys),
		fmt.Sprintf("%t", property.EcoFriendlyRequired),
		strings.ToLower(strings.TrimSpace(property.Notes)),
	} {
		fmt.Fprintf(hasher, "%d:%s|", len(field), field)
	}
	return quoteKeyPrefix + hex.EncodeToString(hasher.Sum(nil))
}
