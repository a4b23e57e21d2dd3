package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache and maxBytes are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many news texts from a list file in parallel",
	Long: `Batch analyzes many inputs concurrently:
- Read input paths from a list file (one per line, # comments allowed)
- Relative paths resolve against the list file's directory
- Analyze inputs in parallel with a configurable worker count
- Write a JSON and a Markdown report per input

Example:
  credence batch articles.txt
  credence batch articles.txt --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./credence-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared with analyze
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	batchCmd.Flags().Int64Var(&maxBytes, "max-bytes", 1<<20, "max bytes to read per input")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if cmd.Flags().Changed("max-bytes") {
		cfg.Input.MaxBytes = maxBytes
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	cfg.Output.Delay = 0

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Credence Batch Analysis\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	summary := writeBatchReports(stderr, p.Renderer(), results, outputDir)

	// Summary
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:       %d inputs\n", len(results))
	fmt.Fprintf(stderr, "  Success:     %d\n", summary.success)
	fmt.Fprintf(stderr, "  Failures:    %d\n", summary.failure)
	fmt.Fprintf(stderr, "  %s: %d  %s: %d  %s: %d\n",
		model.LevelTrust.Label(), summary.levels[model.LevelTrust],
		model.LevelCaution.Label(), summary.levels[model.LevelCaution],
		model.LevelSuspicious.Label(), summary.levels[model.LevelSuspicious])
	fmt.Fprintf(stderr, "  Output:      %s\n", outputDir)
	fmt.Fprintf(stderr, "\n")

	return nil
}

type batchSummary struct {
	success int
	failure int
	levels  map[model.Level]int
}

// writeBatchReports writes a JSON and Markdown report per successful result
func writeBatchReports(w io.Writer, renderer *pipeline.Renderer, results []*worker.AnalyzeResult, dir string) batchSummary {
	summary := batchSummary{levels: make(map[model.Level]int)}

	for _, result := range results {
		if result.Error != nil {
			summary.failure++
			fmt.Fprintf(w, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		// Generate output file names; the index keeps same-named inputs apart
		slug := fmt.Sprintf("%03d-%s", result.Index+1, sanitizeFilename(result.Path))
		jsonPath := filepath.Join(dir, slug+".json")
		mdPath := filepath.Join(dir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			summary.failure++
			fmt.Fprintf(w, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			summary.failure++
			fmt.Fprintf(w, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
			continue
		}

		summary.success++
		summary.levels[result.Report.Result.Level]++
		fmt.Fprintf(w, "✓ %s (score: %d/100, %s)\n", result.Path, result.Report.Result.Score, result.Report.Result.Level.Label())
	}

	return summary
}

// sanitizeFilename turns an input path into a safe report file stem
func sanitizeFilename(s string) string {
	s = filepath.Base(s)
	s = strings.TrimSuffix(s, filepath.Ext(s))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if s == "" || s == "." || s == ".." {
		s = "input"
	}

	// Limit length without splitting a UTF-8 sequence
	if len(s) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}

	return s
}

