package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

func scoringRequest() *domain.GenerationRequest {
	return &domain.GenerationRequest{
		Prompt:      "Write about perseverance.",
		Category:    domain.CategoryInspiration,
		MaxLength:   50,
		Temperature: 0.7,
	}
}

func TestScoreEmptyText(t *testing.T) {
	req := scoringRequest()
	assert.Equal(t, 0.0, Score("", req))
	assert.Equal(t, 0.0, Score("   \n\t  ", req))
}

func TestScoreRange(t *testing.T) {
	req := scoringRequest()
	texts := []string{
		"Keep moving forward even when the road is steep and long.",
		"short",
		strings.Repeat("word ", 500),
		"NO CAPS no punct fragment",
	}
	for _, text := range texts {
		s := Score(text, req)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScoreOrdersBetterText(t *testing.T) {
	req := scoringRequest()
	req.Context = "perseverance effort discipline"

	good := "Perseverance is the quiet discipline of showing up with effort every single day, even when progress hides."
	poor := "yes yes yes yes yes yes"

	assert.Greater(t, Score(good, req), Score(poor, req))
}

func TestLengthFit(t *testing.T) {
	// Target range is 30% to 100% of max length, in words.
	assert.Equal(t, 1.0, lengthFit(strings.Repeat("w ", 30), 50))
	assert.Equal(t, 1.0, lengthFit(strings.Repeat("w ", 50), 50))
	assert.Less(t, lengthFit(strings.Repeat("w ", 5), 50), 1.0)
	assert.Less(t, lengthFit(strings.Repeat("w ", 200), 50), 1.0)

	// No stated budget: non-trivial output fits.
	assert.Equal(t, 1.0, lengthFit("four words right here", 0))
}

func TestCoherence(t *testing.T) {
	assert.Equal(t, 1.0, coherence("This sentence has plenty of words. So does this other one."))
	assert.Equal(t, 0.0, coherence("Nope. No. Never."))
	assert.Equal(t, 0.5, coherence("This sentence has plenty of words. No."))
	assert.Equal(t, 0.0, coherence(""))
}

func TestContextRelevance(t *testing.T) {
	assert.Equal(t, 1.0, contextRelevance("anything at all", ""))
	assert.Equal(t, 1.0, contextRelevance("the roof and the gutters", "roof gutters"))
	assert.Equal(t, 0.5, contextRelevance("only the roof here", "roof gutters"))
	assert.Equal(t, 0.0, contextRelevance("nothing matches", "roof gutters"))
}

func TestOriginality(t *testing.T) {
	assert.Equal(t, 1.0, originality("each word appears once"))
	assert.Less(t, originality("again again again again different"), 1.0)
	assert.Equal(t, 0.0, originality("..."))
}

func TestGrammar(t *testing.T) {
	assert.Equal(t, 1.0, grammar("Capitalized and terminated."))
	assert.Equal(t, 0.5, grammar("Capitalized but unterminated"))
	assert.Equal(t, 0.5, grammar("lowercase but terminated."))
	assert.Equal(t, 0.0, grammar("lowercase and unterminated"))
	assert.Equal(t, 1.0, grammar("Does this count? Yes!"))
}
