package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the triage verdict for a submitted email.
type Category string

const (
	CategoryProductive   Category = "Produtivo"   // Requires an actionable response
	CategoryUnproductive Category = "Improdutivo" // Social/courtesy content
	CategoryError        Category = "Erro"        // Internal failure sentinel
)

// Valid reports whether the category is one of the two triage verdicts.
// The error sentinel is produced only at the orchestrator boundary.
func (c Category) Valid() bool {
	return c == CategoryProductive || c == CategoryUnproductive
}

// Submission is one email submitted for triage, with optional sender metadata.
type Submission struct {
	Text    string
	Name    string
	Email   string
	Subject string
}

// NormalizedText is the pre-processed form of a submission's text.
// WordCount reflects the whitespace-split length of the raw lowered text;
// TokenCount counts the tokens surviving stop-word and short-word filtering.
type NormalizedText struct {
	OriginalText string
	CleanText    string
	TokenCount   int
	WordCount    int
}

// ClassificationResult is the classifier's verdict before confidence adjustment.
type ClassificationResult struct {
	Category Category
	RawScore float64 // 0.0 - 1.0
	Source   string  // classifier that produced the verdict (e.g. "model", "heuristic:band-3")
	Signals  []string
}

// ConfidenceFactors holds the booster's sub-scores and the combined multiplier.
// Both sub-scores are clamped to [0.5, 1.5]; the multiplier is their weighted average.
type ConfidenceFactors struct {
	SubjectBoost float64
	ContentBoost float64
	Multiplier   float64
}

// ReplyResult is the terminal artifact returned to the caller. It is always
// well-formed: failure paths degrade to the error category with score 0.
type ReplyResult struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Reply    string  `json:"reply"`
	Source   string  `json:"-"` // "generator", "template" or "error"
}

// TriageRecord is one processed submission persisted to the history store.
type TriageRecord struct {
	ID          uuid.UUID
	Category    Category
	RawScore    float64
	Score       float64
	WordCount   int
	TokenCount  int
	ReplySource string
	CreatedAt   time.Time
}
