package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

var (
	inputText string
	asHTML    bool
	outJSON   string
	outMD     string
	outFormat string
	maxBytes  int64
	noCache   bool
	noColor   bool
	delay     time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Score a news text and highlight flagged phrases",
	Long: `Analyze reads a news text and reports:
- A trust score from 0 to 100 and a verdict (trust, caution, suspicious)
- The sensational, exaggerated and trust-building wording it found
- The text with exaggerated, sourceless and emotional phrases highlighted

Input comes from --text, a file argument, or stdin ("-" or piped input).
Files ending in .html or .htm are read as HTML.

Example:
  credence analyze article.txt
  credence analyze --text "충격! 전 세계가 경악했다"
  cat article.html | credence analyze --html - --json report.json --md report.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&inputText, "text", "", "analyze this text instead of a file")
	analyzeCmd.Flags().BoolVar(&asHTML, "html", false, "treat input as HTML and analyze its visible text")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 1<<20, "max input bytes to read")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outFormat, "format", "text", "stdout format (text, json, yaml)")
	analyzeCmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors in the summary")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	analyzeCmd.Flags().DurationVar(&delay, "delay", 0, "pause before showing results")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyAnalyzeFlags(cmd, cfg)

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if err := validateOutputFormat(cfg.Output.Format); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := pipeline.NewPipeline(cfg)

	format := extract.FormatText
	if asHTML {
		format = extract.FormatHTML
	}

	var report *model.Report
	switch {
	case cmd.Flags().Changed("text"):
		text := inputText
		if format == extract.FormatHTML {
			if text, err = extract.VisibleText(text); err != nil {
				return fmt.Errorf("parse HTML: %w", err)
			}
		}
		report, err = p.Analyze(ctx, "text", text, format)
	case len(args) == 0 || args[0] == "-":
		if len(args) == 0 && stdinIsTerminal() {
			return fmt.Errorf("no input: pass a file, '-' for stdin, or --text")
		}
		report, err = p.AnalyzeReader(ctx, "-", cmd.InOrStdin(), format)
	default:
		if asHTML {
			report, err = analyzeFileAs(ctx, p, args[0], format)
		} else {
			report, err = p.AnalyzeFile(ctx, args[0])
		}
	}
	if err != nil {
		if errors.Is(err, extract.ErrEmptyInput) {
			return errors.New(extract.EmptyInputMessage)
		}
		if errors.Is(err, extract.ErrInputTooLarge) {
			return fmt.Errorf("%w (raise --max-bytes or input.max_bytes)", err)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	logger.Log.WithField("source", report.Source).Debugf("score %d/100", report.Result.Score)

	if err := p.RenderReport(cmd.OutOrStdout(), report, outJSON, outMD, cfg.Output.Verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// applyAnalyzeFlags overrides config values with flags the user set
func applyAnalyzeFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-bytes") {
		cfg.Input.MaxBytes = maxBytes
	}
	if flags.Changed("format") {
		cfg.Output.Format = outFormat
	}
	if flags.Changed("delay") {
		cfg.Output.Delay = delay
	}
	if noColor {
		cfg.Output.Color = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

func validateOutputFormat(format string) error {
	switch format {
	case "", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or yaml)", format)
	}
}

// analyzeFileAs reads a file with an explicit format instead of guessing from its extension
func analyzeFileAs(ctx context.Context, p *pipeline.Pipeline, path string, format extract.Format) (*model.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	report, err := p.AnalyzeReader(ctx, path, f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return report, nil
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
