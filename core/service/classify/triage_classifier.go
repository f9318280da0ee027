// Package classify implements the category classification stage of the triage
// pipeline: a trained model when one is available, with a deterministic
// length/keyword heuristic as the fallback strategy.
package classify

import (
	"context"

	"mailtriage/core/domain"
)

// Classifier is the interface shared by both classification strategies.
type Classifier interface {
	// Name returns the classifier name (for logging).
	Name() string

	// Classify produces a category and raw confidence for normalized text.
	Classify(ctx context.Context, text domain.NormalizedText) (domain.ClassificationResult, error)
}

// Stemmer reduces a word to its stem. The heuristic classifier runs its
// keyword set through the same stemmer the normalizer applies to message
// tokens, so keywords match the stemmed clean text.
type Stemmer interface {
	Stem(word string) string
}

// ScoreCap caps the model's confidence for texts below a word count, so sparse
// inputs cannot produce spuriously confident predictions.
type ScoreCap struct {
	MaxWords int
	Ceiling  float64
}

// Config holds classification tuning knobs.
type Config struct {
	// ShortTextCaps is applied to model scores in ascending MaxWords order.
	// Texts at or above the last threshold keep the model's raw probability.
	ShortTextCaps []ScoreCap
}

// DefaultConfig returns the default short-text confidence ceilings.
func DefaultConfig() *Config {
	return &Config{
		ShortTextCaps: []ScoreCap{
			{MaxWords: 50, Ceiling: 0.60},
			{MaxWords: 100, Ceiling: 0.70},
			{MaxWords: 200, Ceiling: 0.85},
		},
	}
}

// Signal constants emitted by the classifiers.
const (
	SignalEmptyText  = "empty-text"
	SignalTinyText   = "tiny-text"
	SignalModelCap   = "model-score-capped"
	SignalKeywordHit = "productive-keywords"
)

// minClassifiableTokens is the floor below which every text is forced to
// (Improdutivo, 0.10) regardless of keywords or model output.
const minClassifiableTokens = 3

// tinyTextResult is the forced verdict for texts under minClassifiableTokens.
func tinyTextResult() domain.ClassificationResult {
	return domain.ClassificationResult{
		Category: domain.CategoryUnproductive,
		RawScore: 0.10,
		Source:   "heuristic:tiny",
		Signals:  []string{SignalTinyText},
	}
}
