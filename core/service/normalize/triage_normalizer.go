// Package normalize implements the text pre-processing step of the triage pipeline.
package normalize

import (
	"strings"
	"unicode/utf8"

	"mailtriage/core/domain"
)

// stopWords is the fixed Portuguese stop-word set applied during normalization.
var stopWords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "em": {}, "um": {}, "uma": {}, "para": {},
	"com": {}, "é": {}, "e": {}, "o": {}, "a": {}, "os": {}, "as": {},
	"no": {}, "na": {}, "por": {}, "se": {}, "que": {}, "ao": {}, "à": {},
	"este": {}, "esse": {}, "aquele": {},
}

// stemSuffixes is the ordered RSLP-style suffix table. Longest suffixes first;
// at most one suffix is stripped per word, and only when the remaining stem
// keeps at least minStemLen runes.
var stemSuffixes = []string{
	"amento", "imento",
	"mente", "idade", "ância", "ência",
	"ções", "aram", "eram", "iram", "ando", "endo", "indo",
	"asse", "isse", "amos", "emos", "imos",
	"ção", "ões", "ado", "ido", "ava", "oso", "osa",
	"ão", "es", "os", "as", "is", "am", "em",
	"a", "e", "o", "s",
}

const minStemLen = 3

// Normalizer lowercases, tokenizes, filters and stems submitted text.
// It is stateless and safe for concurrent use.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize pre-processes raw text into its canonical clean form. Empty input
// yields zero counts and empty strings; the function never fails.
func (n *Normalizer) Normalize(text string) domain.NormalizedText {
	lowered := strings.TrimSpace(strings.ToLower(text))
	words := strings.Fields(lowered)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		tokens = append(tokens, n.Stem(w))
	}

	return domain.NormalizedText{
		OriginalText: lowered,
		CleanText:    strings.Join(tokens, " "),
		TokenCount:   len(tokens),
		WordCount:    len(words),
	}
}

// Stem applies the deterministic suffix-stripping transform to a single word.
// Exported so the heuristic classifier can stem its keyword set through the
// same rules the pipeline applies to message tokens.
func (n *Normalizer) Stem(word string) string {
	for _, suffix := range stemSuffixes {
		rest, ok := strings.CutSuffix(word, suffix)
		if !ok {
			continue
		}
		if utf8.RuneCountInString(rest) >= minStemLen {
			return rest
		}
		// Suffix matched but the stem would be too short; keep the word whole
		// so a second normalization pass never drops it.
		return word
	}
	return word
}
