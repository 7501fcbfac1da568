package model

import "strings"

// AnalysisResult is the complete outcome of analyzing one unit of text.
// It is immutable once built: a fresh instance per call, no shared state
// between analyses.
type AnalysisResult struct {
	ContentHash    string `json:"content_hash"`    // sha256 of the original bytes, first 16 hex chars
	ContentPreview string `json:"content_preview"` // first 200 chars of the processed text

	Risk    RiskScore `json:"risk_score"`
	Flagged bool      `json:"flagged"` // value at or above the medium threshold

	Categories []string `json:"categories"` // readable names of matched pattern categories
	Matches    []Match  `json:"matches"`    // all pattern and entity evidence, in scan order

	Sentiment SentimentScore `json:"sentiment"`

	Explanation     []Statement      `json:"explanation"`     // deterministic reasoning trace
	Recommendations []Recommendation `json:"recommendations"` // always present, possibly empty

	Anonymized bool `json:"anonymized"`
	Enhanced   bool `json:"enhanced"`

	Enhancement *Enhancement `json:"enhancement,omitempty"` // present only when Enhanced

	Engine       string  `json:"engine"`
	ProcessingMS float64 `json:"processing_ms"`
}

// RiskScore pairs the bounded numeric score with its severity level.
// The level is always a pure function of the value against the configured
// thresholds, never set independently.
type RiskScore struct {
	Value int       `json:"value"` // 0-100
	Level RiskLevel `json:"level"`
}

// RiskLevel is the discrete severity derived from the numeric score.
type RiskLevel string

const (
	LevelSafe     RiskLevel = "SAFE"
	LevelLow      RiskLevel = "LOW"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelHigh     RiskLevel = "HIGH"
	LevelCritical RiskLevel = "CRITICAL"
)

// severityOrder ranks levels for comparisons; higher is worse.
var severityOrder = map[RiskLevel]int{
	LevelSafe:     0,
	LevelLow:      1,
	LevelMedium:   2,
	LevelHigh:     3,
	LevelCritical: 4,
}

// Severity returns the numeric rank of the level (SAFE=0 .. CRITICAL=4).
func (l RiskLevel) Severity() int {
	return severityOrder[l]
}

// Category classifies pattern rule-sets. The set is closed and versioned with
// the engine: adding a category is a release, not runtime configuration.
type Category string

const (
	CategoryViolence           Category = "violence"
	CategoryCybersecurity      Category = "cybersecurity"
	CategorySocialEngineering  Category = "social_engineering"
	CategoryHateSpeech         Category = "hate_speech"
	CategoryMisinformation     Category = "misinformation"
	CategorySuspiciousActivity Category = "suspicious_activity"
	CategoryDataExfiltration   Category = "data_exfiltration"
)

// Categories lists all pattern categories in declaration order. The order is
// part of the contract: explanation ties break on it.
func Categories() []Category {
	return []Category{
		CategoryViolence,
		CategoryCybersecurity,
		CategorySocialEngineering,
		CategoryHateSpeech,
		CategoryMisinformation,
		CategorySuspiciousActivity,
		CategoryDataExfiltration,
	}
}

// DisplayName renders a category for reports ("social_engineering" ->
// "Social Engineering").
func (c Category) DisplayName() string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Valid reports whether c is one of the declared pattern categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// EntityKind classifies recognized risk terms.
type EntityKind string

const (
	KindWeapon     EntityKind = "weapon"
	KindThreatVerb EntityKind = "threat_verb"
	KindLocation   EntityKind = "location"
)

// EntityKinds lists all kinds in declaration order (after the pattern
// categories for explanation tie-breaking).
func EntityKinds() []EntityKind {
	return []EntityKind{KindWeapon, KindThreatVerb, KindLocation}
}

// DisplayName renders a kind for reports.
func (k EntityKind) DisplayName() string {
	switch k {
	case KindWeapon:
		return "Weapon Entities"
	case KindThreatVerb:
		return "Threat Language"
	case KindLocation:
		return "Location Risk Terms"
	}
	return string(k)
}

// MatchSource tells which detector produced a match.
type MatchSource string

const (
	SourcePattern MatchSource = "pattern"
	SourceEntity  MatchSource = "entity"
)

// Match is one piece of evidence: a pattern or entity occurrence in the
// processed text. Matches are owned by the result that contains them and are
// never retained across calls.
type Match struct {
	Source   MatchSource `json:"source"`
	Category Category    `json:"category,omitempty"` // set for pattern matches
	Kind     EntityKind  `json:"kind,omitempty"`     // set for entity matches
	Text     string      `json:"text"`               // the matched span
	Start    int         `json:"start"`              // offsets into the normalized text
	End      int         `json:"end"`
	Weight   float64     `json:"weight"` // per-occurrence contribution, before caps
}

// Polarity is the sentiment direction.
type Polarity string

const (
	SentimentPositive Polarity = "Positive"
	SentimentNegative Polarity = "Negative"
	SentimentNeutral  Polarity = "Neutral"
)

// SentimentScore is the lexicon-based polarity reading for the text.
type SentimentScore struct {
	Polarity  Polarity `json:"polarity"`
	Intensity float64  `json:"intensity"` // 0-1, 0 for neutral
}

// Statement is one entry of the explanation trace. Ref names the category,
// kind, or signal the statement was derived from.
type Statement struct {
	Ref    string  `json:"ref"`
	Text   string  `json:"text"`
	Hits   int     `json:"hits,omitempty"`
	Weight float64 `json:"weight,omitempty"` // contribution that ordered this statement
}

// Recommendation is one mitigation action with its priority (lower is more
// urgent).
type Recommendation struct {
	Action   string `json:"action"`
	Priority int    `json:"priority"`
}

// Enhancement is the optional overlay returned by the enhancement port. It is
// additive: the base explanation trace and base score are preserved here even
// when the numeric score was overridden.
type Enhancement struct {
	Provider     string    `json:"provider"`
	Model        string    `json:"model,omitempty"`
	Assessment   string    `json:"assessment"`
	RevisedScore *int      `json:"revised_score,omitempty"`
	BaseValue    int       `json:"base_value"`
	BaseLevel    RiskLevel `json:"base_level"`
	TokensUsed   int       `json:"tokens_used,omitempty"`
}

// ExplanationText flattens the trace for single-line export rows. The
// enhancement assessment, when present, is appended after the base trace,
// never in place of it.
func (r *AnalysisResult) ExplanationText() string {
	parts := make([]string, 0, len(r.Explanation)+1)
	for _, s := range r.Explanation {
		parts = append(parts, s.Text)
	}
	if r.Enhancement != nil && r.Enhancement.Assessment != "" {
		parts = append(parts, "AI assessment: "+r.Enhancement.Assessment)
	}
	return strings.Join(parts, " ")
}

// CategoryLine flattens the category list for export rows.
func (r *AnalysisResult) CategoryLine() string {
	return strings.Join(r.Categories, ", ")
}
