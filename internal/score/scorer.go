package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/keywords"
	"github.com/ppiankov/credence/internal/model"
)

const (
	baseScore           = 70
	sensationalPenalty  = 8
	exaggerationPenalty = 6
	trustBonus          = 10

	trustThreshold   = 80.0
	cautionThreshold = 50.0
)

// Scorer rates a text against the fixed keyword tables.
// It holds only compiled tables and is safe for concurrent use.
type Scorer struct {
	sensational         *keywords.Matcher
	exaggeration        *keywords.Matcher
	trust               *keywords.Matcher
	emotional           *keywords.Matcher
	sourceless          *keywords.Matcher
	exaggerationDisplay *keywords.Matcher
}

// NewScorer creates a new scorer over the built-in tables
func NewScorer() *Scorer {
	s := &Scorer{exaggerationDisplay: keywords.NewMatcher(keywords.ExaggerationDisplay())}
	for _, t := range keywords.Tables() {
		m := keywords.NewMatcher(t.Entries)
		switch t.Name {
		case keywords.Sensational:
			s.sensational = m
		case keywords.Exaggeration:
			s.exaggeration = m
		case keywords.Trust:
			s.trust = m
		case keywords.Emotional:
			s.emotional = m
		case keywords.Sourceless:
			s.sourceless = m
		}
	}
	return s
}

var defaultScorer = NewScorer()

// Analyze scores text with the built-in tables
func Analyze(text string) model.AnalysisResult {
	return defaultScorer.Analyze(text)
}

// Analyze computes the trust score, verdict and keyword matches for text.
// Matching is case-sensitive against the text exactly as typed. Callers are
// expected to reject blank input before calling; blank text still scores.
func (s *Scorer) Analyze(text string) model.AnalysisResult {
	// 1. Scoring table matches. Intentionally case-sensitive on text as
	// typed; there is no lowercased copy.
	sensational := s.sensational.Present(text)
	exaggeration := s.exaggeration.Present(text)
	trust := s.trust.Present(text)

	riskCount := len(sensational) + len(exaggeration)

	// 2. Length weight
	wordCount := countWords(text)
	weight := lengthWeight(wordCount)

	// 3. Formula
	base := baseScore -
		len(sensational)*sensationalPenalty -
		len(exaggeration)*exaggerationPenalty +
		len(trust)*trustBonus
	raw := math.Max(0, math.Min(100, float64(base)*weight))

	level, message, details := determineLevel(raw)

	// 4. Highlight inputs, independent of the score
	highlights := model.HighlightSpans{
		Exaggeration: keywords.Dedupe(append(append([]string{}, exaggeration...), s.exaggerationDisplay.Present(text)...)),
		Sourceless:   s.sourceless.Present(text),
		Emotional:    s.emotional.Present(text),
	}

	signals := []model.Signal{
		keywordSignal(model.SignalSensational, sensational, -sensationalPenalty),
		keywordSignal(model.SignalExaggeration, exaggeration, -exaggerationPenalty),
		trustSignal(trust),
		highlightSignal(model.SignalSourceless, highlights.Sourceless),
		highlightSignal(model.SignalEmotional, highlights.Emotional),
		lengthSignal(wordCount, weight),
	}

	return model.AnalysisResult{
		Score: int(math.Round(raw)),
		Level: level,
		DetectedKeywords: model.DetectedKeywords{
			Sensational:  sensational,
			Exaggeration: exaggeration,
			Trust:        trust,
		},
		Highlights: highlights,
		RiskCount:  riskCount,
		Message:    message,
		Details:    details,
		Breakdown: model.Breakdown{
			WordCount:    wordCount,
			LengthWeight: weight,
			BaseScore:    base,
			RawScore:     raw,
			Formula:      "clamp((70 - 8*sensational - 6*exaggeration + 10*trust) * length_weight, 0, 100)",
		},
		Signals: signals,
	}
}

// countWords counts tokens split on script whitespace (extract.IsSpace).
// Blank text counts as one token, the same as splitting an empty string.
func countWords(text string) int {
	n := len(extract.Fields(text))
	if n == 0 {
		return 1
	}
	return n
}

// lengthWeight scales short texts down and long texts up
func lengthWeight(wordCount int) float64 {
	switch {
	case wordCount > 50:
		return 1.2
	case wordCount > 20:
		return 1.0
	default:
		return 0.8
	}
}

// determineLevel maps the unrounded score to a verdict
func determineLevel(raw float64) (model.Level, string, string) {
	if raw >= trustThreshold {
		return model.LevelTrust,
			"신뢰할 수 있는 뉴스입니다",
			"출처가 명확하고 과장 표현이 적습니다."
	} else if raw >= cautionThreshold {
		return model.LevelCaution,
			"주의가 필요합니다",
			"일부 자극적인 표현이 포함되어 있습니다. 다른 출처와 교차 확인을 권장합니다."
	}
	return model.LevelSuspicious,
		"가짜 뉴스가 의심됩니다",
		"자극적이고 과장된 표현이 많이 포함되어 있습니다. 신뢰하기 어렵습니다."
}

// keywordSignal reports a penalized table
func keywordSignal(kind model.SignalType, matches []string, perMatch int) model.Signal {
	severity := model.SeverityInfo
	if len(matches) >= 3 {
		severity = model.SeverityCritical
	} else if len(matches) > 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        kind,
		Severity:    severity,
		Description: fmt.Sprintf("%d %s keyword(s) detected", len(matches), kind),
		Data: map[string]interface{}{
			"matches":   matches,
			"count":     len(matches),
			"per_match": perMatch,
			"impact":    perMatch * len(matches),
		},
	}
}

func trustSignal(matches []string) model.Signal {
	severity := model.SeverityInfo
	if len(matches) == 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalTrust,
		Severity:    severity,
		Description: fmt.Sprintf("%d sourcing keyword(s) detected", len(matches)),
		Data: map[string]interface{}{
			"matches":   matches,
			"count":     len(matches),
			"per_match": trustBonus,
			"impact":    trustBonus * len(matches),
		},
	}
}

// highlightSignal reports a display-only category; it carries no score impact
func highlightSignal(kind model.SignalType, matches []string) model.Signal {
	severity := model.SeverityInfo
	if len(matches) > 0 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        kind,
		Severity:    severity,
		Description: fmt.Sprintf("%d %s phrase(s) detected (not scored)", len(matches), kind),
		Data: map[string]interface{}{
			"matches": matches,
			"count":   len(matches),
			"impact":  0,
		},
	}
}

func lengthSignal(wordCount int, weight float64) model.Signal {
	return model.Signal{
		Type:        model.SignalLength,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Word count %d, weight %.1f", wordCount, weight),
		Data: map[string]interface{}{
			"word_count": wordCount,
			"weight":     weight,
			"formula":    "1.2 if words > 50, 1.0 if words > 20, else 0.8",
		},
	}
}
