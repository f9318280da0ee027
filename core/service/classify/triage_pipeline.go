package classify

import (
	"context"
	"strings"

	"mailtriage/core/domain"
	"mailtriage/core/port/out"
	"mailtriage/pkg/logger"
)

// Pipeline selects between the two classification strategies: the trained
// model when one was loaded at startup, the heuristic otherwise or whenever
// the model invocation fails. Model errors are logged and recovered locally;
// Classify never returns an error to its caller.
type Pipeline struct {
	model     Classifier // nil when no model artifact is available
	heuristic Classifier
}

// NewPipeline builds the classification pipeline. model may be nil.
func NewPipeline(model out.Model, stemmer Stemmer, cfg *Config) *Pipeline {
	p := &Pipeline{
		heuristic: NewHeuristicClassifier(stemmer),
	}
	if model != nil {
		p.model = NewModelClassifier(model, cfg)
	}
	return p
}

// Classify runs the normalized text through the active strategy.
func (p *Pipeline) Classify(ctx context.Context, text domain.NormalizedText) domain.ClassificationResult {
	// Empty clean text short-circuits before any strategy runs.
	if strings.TrimSpace(text.CleanText) == "" {
		return domain.ClassificationResult{
			Category: domain.CategoryUnproductive,
			RawScore: 0.0,
			Source:   "empty",
			Signals:  []string{SignalEmptyText},
		}
	}

	// Very short texts are forced down regardless of strategy.
	if text.TokenCount < minClassifiableTokens {
		return tinyTextResult()
	}

	if p.model != nil {
		result, err := p.model.Classify(ctx, text)
		if err == nil {
			return result
		}
		logger.WithError(err).Warn("Model classification failed, falling back to heuristic")
	}

	result, _ := p.heuristic.Classify(ctx, text)
	return result
}

// UsingModel reports whether the trained-model strategy is active.
func (p *Pipeline) UsingModel() bool {
	return p.model != nil
}
