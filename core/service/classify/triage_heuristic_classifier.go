package classify

import (
	"context"
	"fmt"
	"strings"

	"mailtriage/core/domain"
)

// productiveKeywords are the Portuguese action words that push a text toward
// the productive category. They are stemmed at construction time so they match
// the normalizer's output.
var productiveKeywords = []string{
	"urgente", "suporte", "erro", "bug", "problema", "solicitação",
	"informação", "status", "dúvida", "questão", "reunião", "aprovação",
	"acesso", "integração", "implementação", "feedback", "relatório",
	"correção", "alteração", "backup", "dados", "projeto", "prazo",
}

// HeuristicClassifier is the deterministic fallback strategy. It bands texts
// by surviving token count and uses productive-keyword occurrences as a
// tie-break toward the productive category.
//
// Banding (canonical five-band scheme):
//
//	tokens < 30:    Improdutivo 0.20 (keywords do not rescue very short text)
//	tokens 30-49:   Improdutivo 0.30, or Produtivo 0.50 with >= 2 keywords
//	tokens 50-99:   Improdutivo 0.40, or Produtivo 0.60 with >= 1 keyword
//	tokens 100-199: Improdutivo 0.60, or Produtivo 0.75 with >= 1 keyword
//	tokens >= 200:  Produtivo 0.70, or Produtivo 0.90 with >= 1 keyword
type HeuristicClassifier struct {
	keywords map[string]struct{}
}

// NewHeuristicClassifier builds the fallback classifier, stemming its keyword
// set through the supplied stemmer.
func NewHeuristicClassifier(stemmer Stemmer) *HeuristicClassifier {
	keywords := make(map[string]struct{}, len(productiveKeywords))
	for _, kw := range productiveKeywords {
		keywords[stemmer.Stem(kw)] = struct{}{}
	}
	return &HeuristicClassifier{keywords: keywords}
}

// Name returns the classifier name.
func (c *HeuristicClassifier) Name() string {
	return "heuristic"
}

// Classify applies the banding table to the normalized text. It never fails.
func (c *HeuristicClassifier) Classify(_ context.Context, text domain.NormalizedText) (domain.ClassificationResult, error) {
	if strings.TrimSpace(text.CleanText) == "" {
		return domain.ClassificationResult{
			Category: domain.CategoryUnproductive,
			RawScore: 0.0,
			Source:   "heuristic:empty",
			Signals:  []string{SignalEmptyText},
		}, nil
	}

	if text.TokenCount < minClassifiableTokens {
		return tinyTextResult(), nil
	}

	hits := c.countKeywords(text.CleanText)

	var (
		category domain.Category
		score    float64
		band     string
	)

	switch {
	case text.TokenCount < 30:
		category, score, band = domain.CategoryUnproductive, 0.20, "band-1"
	case text.TokenCount < 50:
		if hits >= 2 {
			category, score = domain.CategoryProductive, 0.50
		} else {
			category, score = domain.CategoryUnproductive, 0.30
		}
		band = "band-2"
	case text.TokenCount < 100:
		if hits >= 1 {
			category, score = domain.CategoryProductive, 0.60
		} else {
			category, score = domain.CategoryUnproductive, 0.40
		}
		band = "band-3"
	case text.TokenCount < 200:
		if hits >= 1 {
			category, score = domain.CategoryProductive, 0.75
		} else {
			category, score = domain.CategoryUnproductive, 0.60
		}
		band = "band-4"
	default:
		if hits >= 1 {
			category, score = domain.CategoryProductive, 0.90
		} else {
			category, score = domain.CategoryProductive, 0.70
		}
		band = "band-5"
	}

	signals := []string{band}
	if hits > 0 {
		signals = append(signals, fmt.Sprintf("%s:%d", SignalKeywordHit, hits))
	}

	return domain.ClassificationResult{
		Category: category,
		RawScore: score,
		Source:   "heuristic:" + band,
		Signals:  signals,
	}, nil
}

// countKeywords counts keyword occurrences in the stemmed clean text.
func (c *HeuristicClassifier) countKeywords(cleanText string) int {
	count := 0
	for _, token := range strings.Fields(cleanText) {
		if _, ok := c.keywords[token]; ok {
			count++
		}
	}
	return count
}
