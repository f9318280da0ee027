// Package triage wires normalization, classification, confidence boosting and
// reply generation into the single processing use case exposed over HTTP.
package triage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"mailtriage/core/domain"
	"mailtriage/core/port/in"
	"mailtriage/core/port/out"
	"mailtriage/core/service/boost"
	"mailtriage/core/service/classify"
	"mailtriage/core/service/normalize"
	"mailtriage/core/service/reply"
	"mailtriage/pkg/logger"
)

const (
	emptyCategory = "Nenhum texto fornecido"
	emptyReply    = "Forneça um texto ou arquivo."

	cacheKeyPrefix = "triage:result:"
)

// Service implements in.TriageService
type Service struct {
	normalizer *normalize.Normalizer
	pipeline   *classify.Pipeline
	booster    *boost.Booster
	replies    *reply.Service

	cache   out.ResultCache       // optional
	history out.HistoryRepository // optional
}

// NewService creates a new TriageService. cache and history may be nil.
func NewService(
	normalizer *normalize.Normalizer,
	pipeline *classify.Pipeline,
	booster *boost.Booster,
	replies *reply.Service,
	cache out.ResultCache,
	history out.HistoryRepository,
) in.TriageService {
	return &Service{
		normalizer: normalizer,
		pipeline:   pipeline,
		booster:    booster,
		replies:    replies,
		cache:      cache,
		history:    history,
	}
}

// Process runs the full triage pipeline for one submission.
func (s *Service) Process(ctx context.Context, req *in.ProcessRequest) (resp *in.ProcessResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprintf("%v", r)).Error("Triage pipeline panicked")
			resp = errorResponse()
			err = nil
		}
	}()

	sub := domain.Submission{
		Text:    strings.TrimSpace(req.Text),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
	}

	if sub.Text == "" {
		return &in.ProcessResponse{
			Category:     emptyCategory,
			Score:        0,
			ScoreDisplay: "0.00",
			Reply:        emptyReply,
			ReplyHTML:    emptyReply,
		}, nil
	}

	key := cacheKey(sub)
	if s.cache != nil {
		var cached in.ProcessResponse
		if hit, cerr := s.cache.GetJSON(ctx, key, &cached); cerr != nil {
			logger.WithError(cerr).Warn("Result cache lookup failed")
		} else if hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	text := s.normalizer.Normalize(sub.Text)
	classification := s.pipeline.Classify(ctx, text)
	adjusted, _ := s.booster.Boost(classification.RawScore, sub)
	built := s.replies.BuildReply(ctx, sub, classification.Category, adjusted)

	resp = &in.ProcessResponse{
		Category:     built.Category,
		Score:        built.Score,
		ScoreDisplay: fmt.Sprintf("%.2f", built.Score),
		Reply:        built.Reply,
		ReplyHTML:    replyHTML(built.Reply),
		ReplySource:  built.Source,
	}

	s.record(ctx, &domain.TriageRecord{
		Category:    domain.Category(built.Category),
		RawScore:    classification.RawScore,
		Score:       built.Score,
		WordCount:   text.WordCount,
		TokenCount:  text.TokenCount,
		ReplySource: built.Source,
	})

	if s.cache != nil && built.Category != string(domain.CategoryError) {
		if cerr := s.cache.SetJSON(ctx, key, resp, 0); cerr != nil {
			logger.WithError(cerr).Warn("Result cache store failed")
		}
	}

	return resp, nil
}

// History returns recently processed submissions.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.TriageRecord, error) {
	if s.history == nil {
		return []*domain.TriageRecord{}, nil
	}
	records, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// record persists one history row; persistence failures never fail triage.
func (s *Service) record(ctx context.Context, rec *domain.TriageRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, rec); err != nil {
		logger.WithError(err).Warn("History record failed")
	}
}

// cacheKey digests every field that influences the result, so submissions
// differing only in metadata never share an entry.
func cacheKey(sub domain.Submission) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{sub.Text, sub.Name, sub.Email, sub.Subject}, "\x1f")))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// replyHTML converts reply newlines for browser display.
func replyHTML(text string) string {
	html := strings.ReplaceAll(text, "\r\n", "\n")
	html = strings.ReplaceAll(html, "\n\n", "<p>")
	return strings.ReplaceAll(html, "\n", "<br>")
}

func errorResponse() *in.ProcessResponse {
	return &in.ProcessResponse{
		Category:     string(domain.CategoryError),
		Score:        0,
		ScoreDisplay: "0.00",
		Reply:        "Não foi possível processar sua mensagem. Por favor, tente novamente mais tarde.",
		ReplyHTML:    "Não foi possível processar sua mensagem. Por favor, tente novamente mais tarde.",
		ReplySource:  reply.SourceError,
	}
}
