package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/worker"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"articles/today news.txt", "today-news"},
		{"/tmp/a:b*c?.html", "a_b_c_"},
		{"뉴스.txt", "뉴스"},
		{"", "input"},
		{".txt", "input"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}

	long := sanitizeFilename(strings.Repeat("가", 60) + ".txt")
	assert.LessOrEqual(t, len(long), 100)
	assert.True(t, strings.HasPrefix(strings.Repeat("가", 60), long))
}

func TestValidateOutputFormat(t *testing.T) {
	for _, f := range []string{"", "text", "json", "yaml"} {
		assert.NoError(t, validateOutputFormat(f), f)
	}
	assert.Error(t, validateOutputFormat("xml"))
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Credence Configuration File"))

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, model.DefaultConfig().Server.Addr, cfg.Server.Addr)

	// never overwrites
	assert.Error(t, writeDefaultConfig(path))
}

func TestWriteBatchReports(t *testing.T) {
	dir := t.TempDir()
	cfg := model.DefaultConfig()
	p := pipeline.NewPipeline(cfg)

	report, err := p.Analyze(t.Context(), "a.txt", "충격! 전 세계가 경악했다. 정부가 절대 말하지 않는 비밀이 공개되었다.", "text")
	require.NoError(t, err)

	results := []*worker.AnalyzeResult{
		{Index: 0, Path: "in/a.txt", Report: report},
		{Index: 1, Path: "in/b.txt", Error: errors.New("boom")},
	}

	var log bytes.Buffer
	summary := writeBatchReports(&log, p.Renderer(), results, dir)

	assert.Equal(t, 1, summary.success)
	assert.Equal(t, 1, summary.failure)
	assert.Equal(t, 1, summary.levels[model.LevelSuspicious])
	assert.FileExists(t, filepath.Join(dir, "001-a.json"))
	assert.FileExists(t, filepath.Join(dir, "001-a.md"))
	assert.Contains(t, log.String(), "✗ in/b.txt: boom")
	assert.Contains(t, log.String(), "score: 32/100")
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"analyze", "--text", "충격! 전 세계가 경악했다. 정부가 절대 말하지 않는 비밀이 공개되었다.",
		"--format", "json", "--no-cache",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())

	var report model.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 32, report.Result.Score)
	assert.Equal(t, model.LevelSuspicious, report.Result.Level)
	assert.Equal(t, "text", report.Source)
}

func TestAnalyzeCommand_RejectsOversizedText(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"analyze", "--text", "오늘 날씨가 좋습니다 충격 경악 긴급", "--max-bytes", "20", "--no-cache",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrInputTooLarge), "got %v", err)
	assert.Contains(t, err.Error(), "--max-bytes")
	assert.Empty(t, out.String())
}
