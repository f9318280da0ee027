// Package boost implements the multi-factor confidence adjustment applied to
// raw classification scores. Two independent sub-scorers (subject/sender and
// content) each produce a multiplier in [0.5, 1.5]; the booster combines them
// and applies the result to the raw score. The booster never changes the
// category, only how much the classification is trusted.
package boost

import (
	"strings"
	"unicode/utf8"
)

// Adjustment is one additive change to a sub-score, kept for diagnostics.
type Adjustment struct {
	Reason string
	Delta  float64
}

// Sub-score bounds.
const (
	boostFloor   = 0.5
	boostCeiling = 1.5
)

// professionalKeywords signal business context in subjects and bodies.
var professionalKeywords = []string{
	"urgente", "suporte", "erro", "problema", "sistema", "reunião",
	"projeto", "prazo", "contrato", "proposta", "relatório", "pagamento",
	"fatura", "solicitação", "orçamento",
}

// webmailDomains are known personal e-mail providers.
var webmailDomains = []string{
	"gmail.com", "hotmail.com", "outlook.com", "yahoo.com",
	"icloud.com", "uol.com.br", "bol.com.br", "terra.com.br",
}

// corporateIndicators are substrings that suggest a corporate sender address.
var corporateIndicators = []string{
	"company", "corp", "inc", "ltda", "empresa", "group",
}

// SubjectScorer scores the trustworthiness signals carried by the subject
// line and sender identity. Stateless.
type SubjectScorer struct{}

func NewSubjectScorer() *SubjectScorer {
	return &SubjectScorer{}
}

// Score starts at 1.0, applies the additive adjustments and clamps the result
// to [0.5, 1.5]. The adjustment list records every applied delta.
func (s *SubjectScorer) Score(subject, name, email string) (float64, []Adjustment) {
	var adjustments []Adjustment
	score := 1.0

	subject = strings.TrimSpace(subject)
	switch {
	case subject == "":
		adjustments = append(adjustments, Adjustment{"subject-missing", -0.05})
	case utf8.RuneCountInString(subject) < 5:
		adjustments = append(adjustments, Adjustment{"subject-too-short", -0.10})
	case utf8.RuneCountInString(subject) > 100:
		adjustments = append(adjustments, Adjustment{"subject-too-long", -0.05})
	}

	if subject != "" && containsAnyKeyword(subject, professionalKeywords) {
		adjustments = append(adjustments, Adjustment{"subject-professional-keyword", 0.15})
	}

	if name := strings.TrimSpace(name); utf8.RuneCountInString(name) > 3 {
		adjustments = append(adjustments, Adjustment{"sender-name-present", 0.10})
	}

	if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
		switch {
		case !strings.Contains(email, "@") || !strings.Contains(email, "."):
			adjustments = append(adjustments, Adjustment{"email-malformed", -0.15})
		default:
			if containsAny(email, webmailDomains) {
				adjustments = append(adjustments, Adjustment{"email-webmail-domain", 0.05})
			}
			if containsAny(email, corporateIndicators) {
				adjustments = append(adjustments, Adjustment{"email-corporate-indicator", 0.20})
			}
		}
	}

	for _, a := range adjustments {
		score += a.Delta
	}

	return clamp(score, boostFloor, boostCeiling), adjustments
}

// containsAnyKeyword matches keywords case-insensitively.
func containsAnyKeyword(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
