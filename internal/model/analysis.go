package model

import "time"

// Analysis is the outcome of one verification request.
// It is computed fresh for every request and never persisted.
type Analysis struct {
	FakeScore           int     `json:"fake_score"`            // 0-10
	TrustScore          int     `json:"trust_score"`           // 0-10
	TFIDFScore          float64 `json:"tfidf_score"`           // 0-10, lexical diversity
	MeaningfulWordCount int     `json:"meaningful_word_count"` // Words kept after stopword removal
	TotalWordCount      int     `json:"total_word_count"`
	FinalPercentage     int     `json:"final_percentage"` // 0-100 veracity percentage
	TextLength          int     `json:"text_length"`      // In characters (code points)

	FakeMatches  []string `json:"fake_matches,omitempty"`
	TrustMatches []string `json:"trust_matches,omitempty"`

	Verdict         Verdict  `json:"verdict"`
	ModelConfidence int      `json:"model_confidence"` // min(100, percentage + 15), display only
	Recommendations []string `json:"recommendations"`
	Signals         []Signal `json:"signals"`
}

// Verdict is the fixed label attached to a percentage bucket
type Verdict struct {
	Level       VeracityLevel `json:"level"`
	Label       string        `json:"label"`
	Badge       string        `json:"badge"`
	Progress    string        `json:"progress"`
	Description string        `json:"description"`
}

// VeracityLevel names a percentage bucket
type VeracityLevel string

const (
	LevelLow       VeracityLevel = "low"        // < 30
	LevelMediumLow VeracityLevel = "medium-low" // < 50
	LevelMedium    VeracityLevel = "medium"     // < 70
	LevelHigh      VeracityLevel = "high"       // < 85
	LevelVeryHigh  VeracityLevel = "very-high"  // >= 85
)

// Report wraps an analysis with the context it was produced in
type Report struct {
	Subject      string     `json:"subject"`
	SourceURL    string     `json:"source_url,omitempty"` // Set when the text was fetched
	AnalyzedAt   time.Time  `json:"analyzed_at"`
	FetchMeta    *FetchMeta `json:"fetch_meta,omitempty"`
	Analysis     Analysis   `json:"analysis"`
	Log          []LogEntry `json:"log,omitempty"`
	LanguageHint string     `json:"language_hint,omitempty"`
	Principles   Principles `json:"principles"`
}

// FetchMeta contains HTTP metadata from fetching a source URL
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	FromCache    bool              `json:"from_cache,omitempty"`
	Truncated    bool              `json:"truncated,omitempty"` // Extracted text was cut to the max length
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`
	Severity    SignalSeverity         `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Formula and inputs
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalFakeIndicators   SignalType = "fake_indicators"
	SignalTrustIndicators  SignalType = "trust_indicators"
	SignalLexicalDiversity SignalType = "lexical_diversity" // The "TF-IDF" term
	SignalLength           SignalType = "length_adjustment"
	SignalFinal            SignalType = "final_score"
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// LogKind styles an analysis log line
type LogKind string

const (
	LogInfo    LogKind = "info"
	LogProcess LogKind = "process"
	LogSuccess LogKind = "success"
	LogWarning LogKind = "warning"
	LogError   LogKind = "error"
)

// LogEntry is one line of the cosmetic analysis log
type LogEntry struct {
	Kind    LogKind   `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Principles documents what the percentage is and is not
type Principles struct {
	NonNormative  bool `json:"non_normative"` // Not a calibrated probability of truth
	Transparent   bool `json:"transparent"`   // Every point is explained by a signal
	Deterministic bool `json:"deterministic"` // Same text, same score
}

// DefaultPrinciples returns the standard principles
func DefaultPrinciples() Principles {
	return Principles{
		NonNormative:  true,
		Transparent:   true,
		Deterministic: true,
	}
}
