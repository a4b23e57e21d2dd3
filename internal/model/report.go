package model

import "time"

// Report represents the complete analysis of one input
type Report struct {
	Source     string    `json:"source" yaml:"source"`           // File path, "-" for stdin, or "api"
	AnalyzedAt time.Time `json:"analyzed_at" yaml:"analyzed_at"` // When the analysis ran
	Text       string    `json:"text" yaml:"text"`               // Analyzed text as typed
	Format     string    `json:"format,omitempty" yaml:"format"` // text or html

	Result   AnalysisResult `json:"result" yaml:"result"`     // Score, verdict and matches
	Segments []Segment      `json:"segments" yaml:"segments"` // Highlighted rendering of Text

	Principles Principles `json:"principles" yaml:"principles"` // Core principles applied
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type" yaml:"type"`
	Severity    SignalSeverity         `json:"severity" yaml:"severity"`
	Description string                 `json:"description" yaml:"description"`
	Data        map[string]interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalSensational  SignalType = "sensational"   // Sensational wording
	SignalExaggeration SignalType = "exaggeration"  // Exaggerated wording
	SignalTrust        SignalType = "trust"         // Sourcing vocabulary
	SignalSourceless   SignalType = "sourceless"    // Vague attribution
	SignalEmotional    SignalType = "emotional"     // Emotional wording
	SignalLength       SignalType = "length_weight" // Text length scaling
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Principles documents which core principles were applied
type Principles struct {
	NonNormative bool `json:"non_normative" yaml:"non_normative"` // Flags wording, not truth
	Transparent  bool `json:"transparent" yaml:"transparent"`     // All scoring explainable
	Symmetric    bool `json:"symmetric" yaml:"symmetric"`         // Same tables for every text
}

// DefaultPrinciples returns the standard principles
func DefaultPrinciples() Principles {
	return Principles{
		NonNormative: true,
		Transparent:  true,
		Symmetric:    true,
	}
}
