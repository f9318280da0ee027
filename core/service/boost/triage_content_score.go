package boost

import (
	"strings"
	"unicode"
)

// ContentScorer scores formatting and density signals of the raw message body.
// Stateless.
type ContentScorer struct{}

func NewContentScorer() *ContentScorer {
	return &ContentScorer{}
}

// Score starts at 1.0, applies the additive adjustments and clamps the result
// to [0.5, 1.5].
func (s *ContentScorer) Score(body string) (float64, []Adjustment) {
	var adjustments []Adjustment
	score := 1.0

	wordCount := len(strings.Fields(body))
	switch {
	case wordCount < 20:
		adjustments = append(adjustments, Adjustment{"body-too-short", -0.15})
	case wordCount > 500:
		adjustments = append(adjustments, Adjustment{"body-too-long", -0.05})
	default:
		adjustments = append(adjustments, Adjustment{"body-normal-length", 0.05})
	}

	if uppercaseRatio(body) > 0.3 {
		adjustments = append(adjustments, Adjustment{"uppercase-heavy", -0.20})
	}

	if strings.Count(body, "?") > 2 {
		adjustments = append(adjustments, Adjustment{"genuine-inquiry", 0.10})
	}

	if strings.Count(body, "!") > 5 {
		adjustments = append(adjustments, Adjustment{"exclamation-heavy", -0.10})
	}

	if distinctKeywords(body) >= 3 {
		adjustments = append(adjustments, Adjustment{"professional-keywords", 0.15})
	}

	for _, a := range adjustments {
		score += a.Delta
	}

	return clamp(score, boostFloor, boostCeiling), adjustments
}

// uppercaseRatio is uppercase runes over total runes. Empty text ratios 0.
func uppercaseRatio(text string) float64 {
	total := 0
	upper := 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

// distinctKeywords counts how many professional keywords appear in the body,
// case-insensitively, each keyword counted once.
func distinctKeywords(body string) int {
	lowered := strings.ToLower(body)
	count := 0
	for _, kw := range professionalKeywords {
		if strings.Contains(lowered, kw) {
			count++
		}
	}
	return count
}
