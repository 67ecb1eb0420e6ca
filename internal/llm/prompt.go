package llm

import (
	"fmt"
	"strings"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// buildSystemPrompt derives the system instruction from the request's
// category, tone, and context. The prompt itself travels separately as user
// content.
func buildSystemPrompt(req *domain.GenerationRequest) string {
	var b strings.Builder

	switch req.Category {
	case domain.CategoryInspiration:
		b.WriteString("You write short, memorable inspirational phrases. One or two sentences, no preamble.")
	case domain.CategoryServiceEstimate:
		b.WriteString("You write clear, professional prose describing a priced service estimate for a customer. Be concrete about scope and price.")
	default:
		b.WriteString("You are a concise, helpful writing assistant.")
	}

	if req.Tone != "" {
		fmt.Fprintf(&b, " Use a %s tone.", req.Tone)
	}
	if req.Context != "" {
		fmt.Fprintf(&b, " Relevant context: %s", req.Context)
	}

	return b.String()
}
