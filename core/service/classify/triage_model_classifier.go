package classify

import (
	"context"
	"fmt"

	"mailtriage/core/domain"
	"mailtriage/core/port/out"
)

// ModelClassifier wraps a trained model behind the Classifier interface.
// The raw score is the model's highest class probability, optionally capped by
// the short-text ceilings from Config.
type ModelClassifier struct {
	model out.Model
	caps  []ScoreCap
}

// NewModelClassifier creates the model-backed strategy.
func NewModelClassifier(model out.Model, cfg *Config) *ModelClassifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ModelClassifier{model: model, caps: cfg.ShortTextCaps}
}

// Name returns the classifier name.
func (c *ModelClassifier) Name() string {
	return "model"
}

// Classify invokes the trained model. Errors are returned to the caller; the
// pipeline converts them into a heuristic fallback, never a request failure.
func (c *ModelClassifier) Classify(_ context.Context, text domain.NormalizedText) (domain.ClassificationResult, error) {
	pred, err := c.model.Predict(text.CleanText)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("model predict: %w", err)
	}

	category := domain.CategoryUnproductive
	if pred.Label == 1 {
		category = domain.CategoryProductive
	}

	score := pred.MaxProbability()
	var signals []string
	if capped, ceiling := c.capScore(text.WordCount, score); capped {
		score = ceiling
		signals = append(signals, SignalModelCap)
	}

	return domain.ClassificationResult{
		Category: category,
		RawScore: score,
		Source:   "model",
		Signals:  signals,
	}, nil
}

// capScore returns the applicable ceiling when the score exceeds it.
func (c *ModelClassifier) capScore(wordCount int, score float64) (bool, float64) {
	for _, cap := range c.caps {
		if wordCount < cap.MaxWords {
			if score > cap.Ceiling {
				return true, cap.Ceiling
			}
			return false, 0
		}
	}
	return false, 0
}
