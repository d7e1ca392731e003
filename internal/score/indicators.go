package score

import (
	"sort"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/ppiankov/verinex/internal/extract"
)

// FakeIndicators are lower-case substrings whose presence lowers the score
var FakeIndicators = []string{
	"urgente", "atenção", "alerta", "compartilhe", "vírus", "perigo",
	"secretamente", "escondem", "mentira", "verdade oculta", "governo esconde",
	"mídia mente", "100% garantido", "comprovado", "cientistas dizem",
	"especialistas revelam", "shocking", "breaking", "exclusivo",
}

// TrustIndicators are lower-case substrings whose presence raises the score
var TrustIndicators = []string{
	"segundo estudo", "de acordo com pesquisa", "fontes oficiais",
	"conforme dados", "baseado em evidências", "pesquisa publicada",
	"revista científica", "especialista em", "professor doutor",
	"universidade", "instituto", "organização mundial",
}

// MaxDisplayedMatches caps how many matched terms a log message lists
const MaxDisplayedMatches = 3

// Matcher finds which terms of a fixed list occur in a text in one pass
type Matcher struct {
	terms   []string
	matcher *ahocorasick.Matcher
}

// NewMatcher builds an Aho-Corasick automaton over the normalized terms
func NewMatcher(terms []string) *Matcher {
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(extract.Normalize(strings.TrimSpace(term)))
		if term != "" {
			normalized = append(normalized, term)
		}
	}

	return &Matcher{
		terms:   normalized,
		matcher: ahocorasick.NewStringMatcher(normalized),
	}
}

// Find returns the terms that occur in lowerText, in list order.
// lowerText must already be lower-cased and NFC-normalized.
// Each term is reported once no matter how often it occurs.
func (m *Matcher) Find(lowerText string) []string {
	if len(m.terms) == 0 || lowerText == "" {
		return nil
	}

	hits := m.matcher.MatchThreadSafe([]byte(lowerText))
	if len(hits) == 0 {
		return nil
	}
	sort.Ints(hits)

	found := make([]string, 0, len(hits))
	for _, idx := range hits {
		if idx < len(m.terms) {
			found = append(found, m.terms[idx])
		}
	}
	return found
}

// Terms returns the normalized term list
func (m *Matcher) Terms() []string {
	return append([]string(nil), m.terms...)
}

// Displayed returns at most MaxDisplayedMatches terms for messages
func Displayed(matches []string) []string {
	if len(matches) > MaxDisplayedMatches {
		return matches[:MaxDisplayedMatches]
	}
	return matches
}
