package boost

import (
	"github.com/rs/zerolog"

	"mailtriage/core/domain"
)

// Sub-score weights: content signals are weighted higher than sender signals.
const (
	subjectWeight = 0.4
	contentWeight = 0.6
)

// Booster combines the subject/sender and content sub-scores into a single
// multiplier and applies it to the raw classification score. Diagnostics are
// emitted through the injected logger, never through control flow.
type Booster struct {
	subject *SubjectScorer
	content *ContentScorer
	log     zerolog.Logger
}

// NewBooster creates a confidence booster that logs diagnostics to log.
func NewBooster(log zerolog.Logger) *Booster {
	return &Booster{
		subject: NewSubjectScorer(),
		content: NewContentScorer(),
		log:     log,
	}
}

// Boost adjusts rawScore using signals from the submission's metadata and
// body. The returned score is clamped to [0, 1]. The category is never
// changed here, only how much the classification is trusted.
func (b *Booster) Boost(rawScore float64, sub domain.Submission) (float64, domain.ConfidenceFactors) {
	subjectBoost, subjectAdj := b.subject.Score(sub.Subject, sub.Name, sub.Email)
	contentBoost, contentAdj := b.content.Score(sub.Text)

	multiplier := subjectBoost*subjectWeight + contentBoost*contentWeight
	adjusted := clamp(rawScore*multiplier, 0.0, 1.0)

	b.logDiagnostics(rawScore, adjusted, subjectBoost, contentBoost, multiplier, subjectAdj, contentAdj)

	return adjusted, domain.ConfidenceFactors{
		SubjectBoost: subjectBoost,
		ContentBoost: contentBoost,
		Multiplier:   multiplier,
	}
}

func (b *Booster) logDiagnostics(raw, adjusted, subjectBoost, contentBoost, multiplier float64, subjectAdj, contentAdj []Adjustment) {
	event := b.log.Debug().
		Float64("raw_score", raw).
		Float64("subject_boost", subjectBoost).
		Float64("content_boost", contentBoost).
		Float64("multiplier", multiplier).
		Float64("adjusted_score", adjusted)

	subjectDict := zerolog.Dict()
	for _, a := range subjectAdj {
		subjectDict.Float64(a.Reason, a.Delta)
	}
	contentDict := zerolog.Dict()
	for _, a := range contentAdj {
		contentDict.Float64(a.Reason, a.Delta)
	}

	event.Dict("subject_adjustments", subjectDict).
		Dict("content_adjustments", contentDict).
		Msg("confidence boost applied")
}
