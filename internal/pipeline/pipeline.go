package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/highlight"
	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
)

// Pipeline runs the caller side of an analysis: read and validate input,
// score it, highlight the flagged phrases and assemble a report
type Pipeline struct {
	reader   *extract.Reader
	scorer   *score.Scorer
	cache    cache.Cache
	renderer *Renderer
	config   *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var c cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Pipeline{
		reader:   extract.NewReader(cfg.Input.MaxBytes),
		scorer:   score.NewScorer(),
		cache:    c,
		renderer: NewRenderer(cfg.Output.Color),
		config:   cfg,
	}
}

// cachedAnalysis is what the cache stores per text
type cachedAnalysis struct {
	Result   model.AnalysisResult `json:"result"`
	Segments []model.Segment      `json:"segments"`
}

// Analyze scores text and builds its report. Blank text is rejected with
// extract.ErrEmptyInput and text over Input.MaxBytes with
// extract.ErrInputTooLarge before any scoring happens.
func (p *Pipeline) Analyze(ctx context.Context, source string, text string, format extract.Format) (*model.Report, error) {
	if err := p.reader.Check(text); err != nil {
		return nil, err
	}
	if format == "" {
		format = extract.FormatText
	}

	analysis, hit := p.lookup(format, text)
	if !hit {
		result := p.scorer.Analyze(text)
		analysis = cachedAnalysis{
			Result:   result,
			Segments: highlight.Highlight(text, result.Highlights),
		}
		p.store(format, text, analysis)
	}

	logger.Log.WithFields(logrus.Fields{
		"source": source,
		"score":  analysis.Result.Score,
		"level":  analysis.Result.Level,
		"risk":   analysis.Result.RiskCount,
		"cached": hit,
	}).Debug("analysis complete")

	// Cosmetic pause only; the result is already final
	if p.config.Output.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.config.Output.Delay):
		}
	}

	return &model.Report{
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Text:       text,
		Format:     string(format),
		Result:     analysis.Result,
		Segments:   analysis.Segments,
		Principles: model.DefaultPrinciples(),
	}, nil
}

// AnalyzeReader reads input from r and analyzes it
func (p *Pipeline) AnalyzeReader(ctx context.Context, source string, r io.Reader, format extract.Format) (*model.Report, error) {
	text, err := p.reader.Read(r, format)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, source, text, format)
}

// AnalyzeFile analyzes a file; .html and .htm files are read as HTML
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	format := extract.FormatText
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		format = extract.FormatHTML
	}

	report, err := p.AnalyzeReader(ctx, path, f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

func (p *Pipeline) lookup(format extract.Format, text string) (cachedAnalysis, bool) {
	var analysis cachedAnalysis
	data, ok := p.cache.Get(cache.Key(string(format), text))
	if !ok {
		return analysis, false
	}
	if err := json.Unmarshal(data, &analysis); err != nil {
		logger.Log.WithError(err).Warn("discarding unreadable cache entry")
		return analysis, false
	}
	return analysis, true
}

func (p *Pipeline) store(format extract.Format, text string, analysis cachedAnalysis) {
	data, err := json.Marshal(analysis)
	if err != nil {
		logger.Log.WithError(err).Warn("encode cache entry")
		return
	}
	if err := p.cache.Set(cache.Key(string(format), text), data, p.config.Cache.TTL); err != nil {
		logger.Log.WithError(err).Warn("store cache entry")
	}
}

// RenderReport renders the report to the specified outputs and prints the
// summary to w
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	switch p.config.Output.Format {
	case "json":
		return p.renderer.WriteJSON(w, report)
	case "yaml":
		return p.renderer.WriteYAML(w, report)
	default:
		p.renderer.RenderSummary(w, report)
		return nil
	}
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
