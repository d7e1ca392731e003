package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Stopwords are common low-information Portuguese words excluded from the
// meaningful-word count. Accented and unaccented "não" are both listed.
var Stopwords = map[string]bool{
	"o": true, "a": true, "os": true, "as": true, "um": true, "uma": true,
	"uns": true, "umas": true, "de": true, "do": true, "da": true, "dos": true,
	"das": true, "em": true, "no": true, "na": true, "nos": true, "nas": true,
	"por": true, "para": true, "com": true, "sem": true, "sob": true, "sobre": true,
	"entre": true, "que": true, "e": true, "é": true, "se": true, "como": true,
	"mais": true, "mas": true, "ou": true, "nao": true, "não": true, "ser": true,
	"estar": true, "ter": true, "haver": true, "poder": true,
}

// trimmedPunctuation is removed from a word before the stopword lookup
const trimmedPunctuation = ".,!?;:"

// minMeaningfulRunes is the shortest word that can count as meaningful
const minMeaningfulRunes = 3

// WordStats summarizes the words of a text
type WordStats struct {
	Total      int      // Whitespace-separated words
	Meaningful []string // Lower-cased words that survived stopword removal, punctuation kept
}

// Normalize returns the NFC form of text so that decomposed accents
// ("e" + combining acute) compare equal to precomposed ones
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// Words lower-cases text and splits it on any run of whitespace
func Words(text string) []string {
	return strings.Fields(strings.ToLower(Normalize(text)))
}

// IsStopword reports whether word is a stopword once punctuation is stripped
func IsStopword(word string) bool {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(trimmedPunctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(word))
	return Stopwords[stripped]
}

// IsMeaningful reports whether word is longer than two characters and not a stopword
func IsMeaningful(word string) bool {
	return utf8.RuneCountInString(word) >= minMeaningfulRunes && !IsStopword(word)
}

// Analyze splits text into words and keeps the meaningful ones
func Analyze(text string) WordStats {
	words := Words(text)

	meaningful := make([]string, 0, len(words))
	for _, w := range words {
		if IsMeaningful(w) {
			meaningful = append(meaningful, w)
		}
	}

	return WordStats{
		Total:      len(words),
		Meaningful: meaningful,
	}
}
