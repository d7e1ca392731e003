package score

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/verinex/internal/extract"
	"github.com/ppiankov/verinex/internal/model"
)

const (
	maxSubScore     = 10
	indicatorPoints = 2

	baseScore        = 50
	fakeWeight       = 3
	trustWeight      = 2
	longTextChars    = 1000
	longTextBonus    = 5
	shortTextChars   = 200
	shortTextPenalty = 10
)

var (
	currencyPattern     = regexp.MustCompile(`R\$\s*\d{6,}`)
	bigPercentPattern   = regexp.MustCompile(`\d{3,}%`)
	quotedSpanPattern   = regexp.MustCompile(`"[^"]+"`)
	attributionPrefixes = []string{"Segundo", "Conforme"}
	researchWords       = []string{"estudo", "pesquisa"}
)

// Scorer computes the veracity percentage of a text.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	fake  *Matcher
	trust *Matcher
}

// NewScorer creates a scorer over the built-in indicator lists
func NewScorer() *Scorer {
	return NewScorerWithIndicators(FakeIndicators, TrustIndicators)
}

// NewScorerWithIndicators creates a scorer over custom indicator lists
func NewScorerWithIndicators(fake, trust []string) *Scorer {
	return &Scorer{
		fake:  NewMatcher(fake),
		trust: NewMatcher(trust),
	}
}

// Analyze runs every sub-score and combines them into a full analysis
func (s *Scorer) Analyze(text string) model.Analysis {
	text = extract.Normalize(text)
	stats := extract.Analyze(text)
	length := utf8.RuneCountInString(text)

	fakeScore, fakeMatches := s.FakeIndicators(text)
	trustScore, trustMatches := s.TrustIndicators(text)
	tfidf := LexicalDiversity(stats.Meaningful)
	final := CalculateFinalScore(fakeScore, trustScore, tfidf, length)

	signals := []model.Signal{
		fakeSignal(fakeScore, fakeMatches),
		trustSignal(trustScore, trustMatches),
		diversitySignal(tfidf, stats),
		lengthSignal(length),
		finalSignal(final, fakeScore, trustScore, tfidf, length),
	}

	return model.Analysis{
		FakeScore:           fakeScore,
		TrustScore:          trustScore,
		TFIDFScore:          tfidf,
		MeaningfulWordCount: len(stats.Meaningful),
		TotalWordCount:      stats.Total,
		FinalPercentage:     final,
		TextLength:          length,
		FakeMatches:         fakeMatches,
		TrustMatches:        trustMatches,
		Verdict:             Classify(final),
		ModelConfidence:     ModelConfidence(final),
		Recommendations:     Recommendations(final),
		Signals:             signals,
	}
}

// FakeIndicators scores misinformation markers (0-10).
// +2 per fake indicator, +1 for "!!!" or "???", +3 for an all-caps text,
// +1 for R$ followed by a 6+ digit amount, +1 for a 3+ digit percentage.
func (s *Scorer) FakeIndicators(text string) (int, []string) {
	text = extract.Normalize(text)
	matches := s.fake.Find(strings.ToLower(text))
	score := len(matches) * indicatorPoints

	if strings.Contains(text, "!!!") || strings.Contains(text, "???") {
		score++
	}
	if strings.ToUpper(text) == text {
		score += 3
	}
	if currencyPattern.MatchString(text) {
		score++
	}
	if bigPercentPattern.MatchString(text) {
		score++
	}

	return clamp(score, 0, maxSubScore), matches
}

// TrustIndicators scores credibility markers (0-10).
// +2 per trust indicator, +1 for a URL, +1 for two or more quoted spans,
// +1 for "Segundo"/"Conforme", +1 for "estudo"/"pesquisa" (both case-sensitive).
func (s *Scorer) TrustIndicators(text string) (int, []string) {
	text = extract.Normalize(text)
	matches := s.trust.Find(strings.ToLower(text))
	score := len(matches) * indicatorPoints

	if strings.Contains(text, "http://") || strings.Contains(text, "https://") {
		score++
	}
	if len(quotedSpanPattern.FindAllString(text, 2)) >= 2 {
		score++
	}
	if containsAny(text, attributionPrefixes) {
		score++
	}
	if containsAny(text, researchWords) {
		score++
	}

	return clamp(score, 0, maxSubScore), matches
}

// LexicalDiversity is the single-document "TF-IDF" term (0-10).
// For each distinct word it sums (count/total) * ln(total/count), then
// doubles the sum. With only one document the "rarity" factor just rewards
// words that occur once, so this measures lexical diversity, not relevance.
func LexicalDiversity(words []string) float64 {
	if len(words) == 0 {
		return 0
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}

	total := float64(len(words))
	sum := 0.0
	for _, c := range counts {
		tf := float64(c) / total
		rarity := math.Log(total / float64(c))
		sum += tf * rarity
	}

	return math.Max(0, math.Min(maxSubScore, sum*2))
}

// CalculateFinalScore combines the sub-scores into the 0-100 percentage:
// 50 - 3*fake + 2*trust + tfidf, +5 above 1000 chars, -10 below 200 chars,
// rounded half up and clamped.
func CalculateFinalScore(fakeScore, trustScore int, tfidfScore float64, textLength int) int {
	score := float64(baseScore)
	score -= float64(fakeScore * fakeWeight)
	score += float64(trustScore * trustWeight)
	score += tfidfScore

	score += float64(lengthAdjustment(textLength))

	return clamp(int(math.Floor(score+0.5)), 0, 100)
}

// lengthAdjustment returns the bonus or penalty for the text length
func lengthAdjustment(textLength int) int {
	adj := 0
	if textLength > longTextChars {
		adj += longTextBonus
	}
	if textLength < shortTextChars {
		adj -= shortTextPenalty
	}
	return adj
}

func fakeSignal(score int, matches []string) model.Signal {
	severity := model.SeverityInfo
	if score > 5 {
		severity = model.SeverityCritical
	} else if score > 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalFakeIndicators,
		Severity:    severity,
		Description: fmt.Sprintf("Fake indicators: %d/10 (%d terms matched)", score, len(matches)),
		Data: map[string]interface{}{
			"score":   score,
			"matched": matches,
			"formula": "min(2*matched + punctuation + all_caps*3 + currency + percentage, 10)",
		},
	}
}

func trustSignal(score int, matches []string) model.Signal {
	severity := model.SeverityInfo
	if score == 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalTrustIndicators,
		Severity:    severity,
		Description: fmt.Sprintf("Trust indicators: %d/10 (%d terms matched)", score, len(matches)),
		Data: map[string]interface{}{
			"score":   score,
			"matched": matches,
			"formula": "min(2*matched + url + quotes + attribution + research, 10)",
		},
	}
}

func diversitySignal(score float64, stats extract.WordStats) model.Signal {
	return model.Signal{
		Type:        model.SignalLexicalDiversity,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Lexical diversity (TF-IDF): %.2f/10", score),
		Data: map[string]interface{}{
			"score":            score,
			"meaningful_words": len(stats.Meaningful),
			"total_words":      stats.Total,
			"formula":          "min(2 * sum(tf * ln(total/count)), 10) over one document",
		},
	}
}

func lengthSignal(length int) model.Signal {
	adj := lengthAdjustment(length)
	severity := model.SeverityInfo
	if adj < 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalLength,
		Severity:    severity,
		Description: fmt.Sprintf("Length adjustment: %+d (%d characters)", adj, length),
		Data: map[string]interface{}{
			"length":     length,
			"adjustment": adj,
			"formula":    "+5 if length > 1000, -10 if length < 200",
		},
	}
}

func finalSignal(final, fake, trust int, tfidf float64, length int) model.Signal {
	return model.Signal{
		Type:        model.SignalFinal,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Veracity percentage: %d%%", final),
		Data: map[string]interface{}{
			"fake_score":  fake,
			"trust_score": trust,
			"tfidf_score": tfidf,
			"length":      length,
			"percentage":  final,
			"formula":     "clamp(round(50 - 3*fake + 2*trust + tfidf + length_adjustment), 0, 100)",
		},
	}
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
