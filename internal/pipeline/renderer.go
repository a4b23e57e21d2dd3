package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/model"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
)

// categoryColors maps highlight categories to ANSI backgrounds:
// exaggeration red, sourceless orange, emotional yellow
var categoryColors = map[model.Category]string{
	model.CategoryExaggeration: "\033[30;41m",
	model.CategorySourceless:   "\033[30;48;5;208m",
	model.CategoryEmotional:    "\033[30;43m",
}

var levelColors = map[model.Level]string{
	model.LevelTrust:      "\033[32m",
	model.LevelCaution:    "\033[33m",
	model.LevelSuspicious: "\033[31m",
}

// Renderer writes reports as JSON, YAML, Markdown or a terminal summary
type Renderer struct {
	color bool
}

// NewRenderer creates a renderer; color enables ANSI styling in summaries
func NewRenderer(color bool) *Renderer {
	return &Renderer{color: color}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// WriteJSON writes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML
func (r *Renderer) WriteYAML(w io.Writer, report *model.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// RenderMarkdown writes a Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, Markdown(report))
		return err
	})
}

// Markdown renders the report as a Markdown document. Highlighted spans
// are bolded and tagged with their category label.
func Markdown(report *model.Report) string {
	res := report.Result
	var b strings.Builder

	fmt.Fprintf(&b, "# 뉴스 신뢰도 분석\n\n")
	fmt.Fprintf(&b, "- Source: `%s`\n", report.Source)
	fmt.Fprintf(&b, "- Analyzed: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "## 신뢰도 점수: %d / 100 (%s)\n\n", res.Score, res.Level.Label())
	fmt.Fprintf(&b, "> **%s**  \n> %s\n\n", res.Message, res.Details)

	fmt.Fprintf(&b, "## 의심 요소 하이라이트\n\n")
	for _, s := range report.Segments {
		if s.Highlighted() {
			fmt.Fprintf(&b, "**[%s] %s**", s.Category.Label(), s.Text)
		} else {
			b.WriteString(s.Text)
		}
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "## 상세 분석 결과 (위험 단어 %d개)\n\n", res.RiskCount)
	fmt.Fprintf(&b, "| 구분 | 키워드 |\n|---|---|\n")
	fmt.Fprintf(&b, "| 자극적 키워드 | %s |\n", keywordList(res.DetectedKeywords.Sensational))
	fmt.Fprintf(&b, "| 과장 표현 | %s |\n", keywordList(res.DetectedKeywords.Exaggeration))
	fmt.Fprintf(&b, "| 신뢰 키워드 | %s |\n\n", keywordList(res.DetectedKeywords.Trust))

	bd := res.Breakdown
	fmt.Fprintf(&b, "## Scoring\n\n")
	fmt.Fprintf(&b, "- Formula: `%s`\n", bd.Formula)
	fmt.Fprintf(&b, "- Words: %d, length weight: %.1f\n", bd.WordCount, bd.LengthWeight)
	fmt.Fprintf(&b, "- Base score: %d, final: %.2f\n", bd.BaseScore, bd.RawScore)

	return b.String()
}

// RenderSummary prints a human-readable summary with highlighted text
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	res := report.Result

	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s\n", report.Source)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  신뢰도 점수:  %s\n", r.paint(levelColors[res.Level], fmt.Sprintf("%d / 100 (%s)", res.Score, res.Level.Label())))
	fmt.Fprintf(w, "  %s\n", r.paint(ansiBold, res.Message))
	fmt.Fprintf(w, "  %s\n", res.Details)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  위험 단어:    %d개\n", res.RiskCount)
	fmt.Fprintf(w, "  자극적 키워드: %s\n", keywordList(res.DetectedKeywords.Sensational))
	fmt.Fprintf(w, "  과장 표현:    %s\n", keywordList(res.DetectedKeywords.Exaggeration))
	fmt.Fprintf(w, "  신뢰 키워드:  %s\n", keywordList(res.DetectedKeywords.Trust))
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Highlighted(report.Segments))
	fmt.Fprintln(w)
}

// Highlighted renders segments for a terminal. With color disabled spans
// are bracketed with their category label instead.
func (r *Renderer) Highlighted(segments []model.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		switch {
		case !s.Highlighted():
			b.WriteString(s.Text)
		case r.color:
			b.WriteString(r.paint(categoryColors[s.Category], s.Text))
		default:
			fmt.Fprintf(&b, "[%s:%s]", s.Category.Label(), s.Text)
		}
	}
	return b.String()
}

func (r *Renderer) paint(code, text string) string {
	if !r.color || code == "" {
		return text
	}
	return code + text + ansiReset
}

func keywordList(words []string) string {
	if len(words) == 0 {
		return "감지되지 않음"
	}
	return strings.Join(words, ", ")
}

// writeFile creates path (and its directory) and hands it to write
func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return write(f)
}
