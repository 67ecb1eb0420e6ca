// Package scoring estimates the fitness of generated text against the
// request that produced it. Score is a pure function: no side effects, no
// failure mode, independently testable.
package scoring

import (
	"strings"
	"unicode"

	"github.com/925PRESSUREGLASS/quote-master-platform-sub000/internal/domain"
)

// Component weights. They sum to 1.0 so the final score stays in [0,1].
const (
	weightLength      = 0.20
	weightCoherence   = 0.30
	weightRelevance   = 0.25
	weightOriginality = 0.15
	weightGrammar     = 0.10
)

// Length-fit target range as a fraction of the requested max length.
const (
	lengthTargetLow  = 0.3
	lengthTargetHigh = 1.0
)

// minSentenceWords is the word count below which a sentence does not count
// toward coherence.
const minSentenceWords = 4

// Score rates text against its originating request, returning a value in
// [0,1]. Empty text scores exactly 0.0.
func Score(text string, req *domain.GenerationRequest) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	score := weightLength*lengthFit(text, req.MaxLength) +
		weightCoherence*coherence(text) +
		weightRelevance*contextRelevance(text, req.Context) +
		weightOriginality*originality(text) +
		weightGrammar*grammar(text)

	return clamp01(score)
}

// lengthFit rewards output whose word count sits inside the target range
// derived from the requested max length, penalizing proportionally outside it.
func lengthFit(text string, maxLength int) float64 {
	words := len(strings.Fields(text))
	if maxLength <= 0 {
		// No stated budget: anything non-trivial fits.
		if words >= minSentenceWords {
			return 1.0
		}
		return float64(words) / minSentenceWords
	}

	low := lengthTargetLow * float64(maxLength)
	high := lengthTargetHigh * float64(maxLength)
	w := float64(words)

	switch {
	case w >= low && w <= high:
		return 1.0
	case w < low:
		if low == 0 {
			return 1.0
		}
		return clamp01(w / low)
	default:
		// Over budget: fall off with the overshoot ratio.
		return clamp01(high / w)
	}
}

// coherence is the fraction of sentences carrying at least minSentenceWords
// words. Fragmentary output scores low.
func coherence(text string) float64 {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return 0.0
	}

	long := 0
	for _, s := range sentences {
		if len(strings.Fields(s)) >= minSentenceWords {
			long++
		}
	}
	return float64(long) / float64(len(sentences))
}

// contextRelevance is the fraction of context words present in the output.
// Without context every output is trivially relevant.
func contextRelevance(text, context string) float64 {
	contextWords := normalizedWords(context)
	if len(contextWords) == 0 {
		return 1.0
	}

	textSet := make(map[string]struct{})
	for _, w := range normalizedWords(text) {
		textSet[w] = struct{}{}
	}

	matched := 0
	for _, w := range contextWords {
		if _, ok := textSet[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(contextWords))
}

// originality is the unique-word ratio; heavy repetition scores low.
func originality(text string) float64 {
	words := normalizedWords(text)
	if len(words) == 0 {
		return 0.0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

// grammar applies two surface heuristics: a leading capital letter and
// terminal punctuation, each worth half.
func grammar(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0.0
	}

	score := 0.0
	runes := []rune(trimmed)
	if unicode.IsUpper(runes[0]) {
		score += 0.5
	}
	switch runes[len(runes)-1] {
	case '.', '!', '?':
		score += 0.5
	}
	return score
}

// splitSentences breaks text on terminal punctuation, dropping empties.
func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// normalizedWords lower-cases and strips punctuation from each word.
func normalizedWords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
