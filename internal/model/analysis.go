package model

// Level is the categorical verdict derived from the trust score
type Level string

const (
	LevelTrust      Level = "trust"      // score >= 80
	LevelCaution    Level = "caution"    // 50 <= score < 80
	LevelSuspicious Level = "suspicious" // score < 50
)

// Label returns the display label shown next to the score
func (l Level) Label() string {
	switch l {
	case LevelTrust:
		return "신뢰 가능"
	case LevelCaution:
		return "주의 필요"
	case LevelSuspicious:
		return "가짜 의심"
	default:
		return string(l)
	}
}

// Category tags a highlighted span. The zero value marks plain text.
type Category string

const (
	CategoryNone         Category = ""
	CategoryExaggeration Category = "exaggeration" // exaggerated phrasing
	CategorySourceless   Category = "sourceless"   // attribution without a source
	CategoryEmotional    Category = "emotional"    // emotionally charged wording
)

// Categories lists the highlight categories in scan order
var Categories = []Category{CategoryExaggeration, CategorySourceless, CategoryEmotional}

func (c Category) Label() string {
	switch c {
	case CategoryExaggeration:
		return "과장 표현"
	case CategorySourceless:
		return "출처 불명"
	case CategoryEmotional:
		return "감정 자극"
	default:
		return ""
	}
}

// AnalysisResult is the outcome of scoring one text
type AnalysisResult struct {
	Score            int              `json:"score" yaml:"score"`                         // Trust score (0-100), rounded
	Level            Level            `json:"level" yaml:"level"`                         // trust, caution, suspicious
	DetectedKeywords DetectedKeywords `json:"detectedKeywords" yaml:"detected_keywords"` // Scoring table matches
	Highlights       HighlightSpans   `json:"highlights" yaml:"highlights"`               // Highlighter input
	RiskCount        int              `json:"riskCount" yaml:"risk_count"`                // sensational + exaggeration matches
	Message          string           `json:"message" yaml:"message"`                     // Verdict headline
	Details          string           `json:"details" yaml:"details"`                     // Verdict explanation
	Breakdown        Breakdown        `json:"breakdown" yaml:"breakdown"`                 // Transparent scoring inputs
	Signals          []Signal         `json:"signals,omitempty" yaml:"signals,omitempty"` // Diagnostic signals, never affect score
}

// DetectedKeywords holds the matched entries of the three scoring tables
type DetectedKeywords struct {
	Sensational  []string `json:"sensational" yaml:"sensational"`
	Exaggeration []string `json:"exaggeration" yaml:"exaggeration"`
	Trust        []string `json:"trust" yaml:"trust"`
}

// HighlightSpans holds the literal phrases to mark in the text, per category
type HighlightSpans struct {
	Exaggeration []string `json:"exaggeration" yaml:"exaggeration"`
	Sourceless   []string `json:"sourceless" yaml:"sourceless"`
	Emotional    []string `json:"emotional" yaml:"emotional"`
}

// Words returns the phrases for a category
func (h HighlightSpans) Words(c Category) []string {
	switch c {
	case CategoryExaggeration:
		return h.Exaggeration
	case CategorySourceless:
		return h.Sourceless
	case CategoryEmotional:
		return h.Emotional
	default:
		return nil
	}
}

// IsEmpty reports whether no category carries any phrase
func (h HighlightSpans) IsEmpty() bool {
	return len(h.Exaggeration) == 0 && len(h.Sourceless) == 0 && len(h.Emotional) == 0
}

// Breakdown records every input of the score formula
type Breakdown struct {
	WordCount    int     `json:"wordCount" yaml:"word_count"`
	LengthWeight float64 `json:"lengthWeight" yaml:"length_weight"`
	BaseScore    int     `json:"baseScore" yaml:"base_score"`
	RawScore     float64 `json:"rawScore" yaml:"raw_score"` // clamped, before rounding; verdict uses this
	Formula      string  `json:"formula" yaml:"formula"`
}

// Match is an accepted keyword occurrence. Start and End are byte offsets
// into the analyzed text, End exclusive.
type Match struct {
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Category Category `json:"category"`
}

// Overlaps reports whether the two ranges share at least one byte
func (m Match) Overlaps(start, end int) bool {
	return start < m.End && m.Start < end
}

// Segment is a contiguous run of the text, plain or highlighted
type Segment struct {
	Text     string   `json:"text" yaml:"text"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Highlighted reports whether the segment carries a category
func (s Segment) Highlighted() bool {
	return s.Category != CategoryNone
}
