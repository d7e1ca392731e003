package extract

import "strings"

// LanguageHintMessage is shown when a text does not look Portuguese
const LanguageHintMessage = "O sistema funciona melhor com textos em português."

// portugueseProbes are frequent Portuguese function words, matched with
// surrounding spaces so "de" inside "idade" does not count
var portugueseProbes = []string{"de", "do", "da", "em", "que", "não", "para", "com"}

const (
	languageHintMinChars   = 10
	languageHintCheckChars = 50
	languageHintMinProbes  = 3
)

// LanguageHint returns a hint when text is long enough to judge and fewer
// than three probe words occur in it. It never blocks analysis.
func LanguageHint(text string) (string, bool) {
	text = strings.TrimSpace(Normalize(text))
	length := len([]rune(text))
	if length < languageHintMinChars {
		return "", false
	}

	lower := strings.ToLower(text)
	found := 0
	for _, word := range portugueseProbes {
		if strings.Contains(lower, " "+word+" ") {
			found++
		}
	}

	if found < languageHintMinProbes && length > languageHintCheckChars {
		return LanguageHintMessage, true
	}
	return "", false
}
