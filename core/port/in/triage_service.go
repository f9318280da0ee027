package in

import (
	"context"

	"mailtriage/core/domain"
)

// TriageService defines the interface for email triage operations
type TriageService interface {
	// Process classifies a submitted email and builds its reply. Internal
	// failures surface as an error-category response, not as an error.
	Process(ctx context.Context, req *ProcessRequest) (*ProcessResponse, error)

	// History returns recently processed submissions, newest first.
	History(ctx context.Context, limit int) ([]*domain.TriageRecord, error)
}

// ProcessRequest carries the email body plus optional sender metadata.
type ProcessRequest struct {
	Text    string `json:"text"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// ProcessResponse is the triage verdict presented to the client.
type ProcessResponse struct {
	Category     string  `json:"category"`
	Score        float64 `json:"score"`
	ScoreDisplay string  `json:"score_display"`
	Reply        string  `json:"reply"`
	ReplyHTML    string  `json:"reply_html"`
	ReplySource  string  `json:"reply_source,omitempty"`
	Cached       bool    `json:"cached,omitempty"`
}
