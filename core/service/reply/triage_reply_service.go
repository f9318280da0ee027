// Package reply builds the final triage result: a personalized reply obtained
// from the external generator when it is available, or from deterministic
// Portuguese templates otherwise. All failure paths degrade to a displayable
// result; nothing propagates past this boundary.
package reply

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"mailtriage/core/domain"
	"mailtriage/core/port/out"
	"mailtriage/pkg/logger"
)

const (
	// bodyPreviewLen bounds how much of the original body goes into the
	// generator prompt.
	bodyPreviewLen = 300
	// templatePreviewLen bounds the quoted preview inside template replies.
	templatePreviewLen = 50

	defaultGeneratorTimeout = 15 * time.Second

	errorReplyText = "Não foi possível processar sua mensagem. Por favor, tente novamente mais tarde."
)

// Reply sources recorded on the result.
const (
	SourceGenerator = "generator"
	SourceTemplate  = "template"
	SourceError     = "error"
)

// Service orchestrates reply generation. generator may be nil, in which case
// every reply comes from the template path.
type Service struct {
	generator out.ReplyGenerator
	timeout   time.Duration
}

// NewService creates a reply orchestrator with the given generator timeout.
// A zero timeout selects the default.
func NewService(generator out.ReplyGenerator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = defaultGeneratorTimeout
	}
	return &Service{generator: generator, timeout: timeout}
}

// BuildReply packages the final structured result for a triaged submission.
// The score is the booster-adjusted score, not the classifier's raw one. Any
// panic below this point is converted into the error-category result.
func (s *Service) BuildReply(ctx context.Context, sub domain.Submission, category domain.Category, adjustedScore float64) (result domain.ReplyResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprintf("%v", r)).Error("Reply construction panicked")
			result = domain.ReplyResult{
				Category: string(domain.CategoryError),
				Score:    0.0,
				Reply:    errorReplyText,
				Source:   SourceError,
			}
		}
	}()

	text, source := s.replyText(ctx, sub, category)

	return domain.ReplyResult{
		Category: string(category),
		Score:    adjustedScore,
		Reply:    text,
		Source:   source,
	}
}

// replyText tries the generator, falling back to the template on any error,
// timeout or empty response.
func (s *Service) replyText(ctx context.Context, sub domain.Submission, category domain.Category) (string, string) {
	if s.generator == nil {
		return templateReply(category, sub.Name, sub.Subject, sub.Text), SourceTemplate
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.GenerateReply(genCtx, out.ReplyRequest{
		EmailText: truncateRunes(sub.Text, bodyPreviewLen),
		Category:  string(category),
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			logger.WithError(err).Warn("Reply generator unavailable, using template")
		}
		return templateReply(category, sub.Name, sub.Subject, sub.Text), SourceTemplate
	}

	return extractReply(text), SourceGenerator
}

// extractReply handles generators that wrap the reply in a JSON object. An
// unparseable payload is treated as plain reply text.
func extractReply(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	if !strings.HasPrefix(trimmed, "{") {
		return trimmed
	}

	var structured struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(trimmed), &structured); err != nil || structured.Reply == "" {
		return trimmed
	}
	return structured.Reply
}

// templateReply renders the deterministic Portuguese reply for a category.
func templateReply(category domain.Category, name, subject, emailText string) string {
	greeting := "Prezado(a)"
	if name != "" {
		greeting = "Prezado(a) " + name
	}

	subjectText := "(sem assunto)"
	if subject != "" {
		subjectText = "'" + subject + "'"
	}

	preview := "(sem conteúdo)"
	if emailText != "" {
		preview = truncateRunes(emailText, templatePreviewLen)
	}

	descriptor := contentDescriptor(len(strings.Fields(emailText)))

	if category == domain.CategoryProductive {
		return fmt.Sprintf("%s, Agradecemos o seu contato. Recebemos seu e-mail com o assunto %s, porém o conteúdo da mensagem ('%s') %s. Para que possamos dar o devido encaminhamento, poderia nos fornecer mais informações? Permanecemos à disposição.",
			greeting, subjectText, preview, descriptor)
	}
	return fmt.Sprintf("%s, Agradecemos o seu contato sobre %s. Recebemos sua mensagem ('%s') e valorizamos sua consideração. Sua contribuição é importante para nós. Muito obrigado e continue contando conosco.",
		greeting, subjectText, preview)
}

// contentDescriptor characterizes the message length inside template replies.
func contentDescriptor(wordCount int) string {
	switch {
	case wordCount < 30:
		return "é bastante breve"
	case wordCount < 80:
		return "é concisa"
	case wordCount < 200:
		return "é detalhada"
	default:
		return "é muito completa"
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
