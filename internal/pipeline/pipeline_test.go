package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Color = false
	return cfg
}

func TestPipeline_Analyze(t *testing.T) {
	p := NewPipeline(testConfig())
	text := "충격! 전 세계가 경악했다"

	report, err := p.Analyze(context.Background(), "test", text, extract.FormatText)
	require.NoError(t, err)

	assert.Equal(t, "test", report.Source)
	assert.Equal(t, text, report.Text)
	assert.Equal(t, model.LevelSuspicious, report.Result.Level)
	assert.True(t, report.Principles.Transparent)

	var joined strings.Builder
	highlighted := 0
	for _, s := range report.Segments {
		joined.WriteString(s.Text)
		if s.Highlighted() {
			highlighted++
		}
	}
	assert.Equal(t, text, joined.String())
	assert.Equal(t, 3, highlighted) // 충격, 전 세계, 경악
}

func TestPipeline_Analyze_RejectsBlank(t *testing.T) {
	p := NewPipeline(testConfig())

	_, err := p.Analyze(context.Background(), "test", "  \n ", extract.FormatText)
	assert.True(t, errors.Is(err, extract.ErrEmptyInput))
}

func TestPipeline_RejectsOversizedInput(t *testing.T) {
	cfg := testConfig()
	cfg.Input.MaxBytes = 20
	p := NewPipeline(cfg)
	text := "오늘 날씨가 좋습니다 충격 경악 긴급"

	report, err := p.AnalyzeReader(context.Background(), "-", strings.NewReader(text), extract.FormatText)
	assert.True(t, errors.Is(err, extract.ErrInputTooLarge), "got %v", err)
	assert.Nil(t, report)

	_, err = p.Analyze(context.Background(), "text", text, extract.FormatText)
	assert.True(t, errors.Is(err, extract.ErrInputTooLarge), "got %v", err)

	path := filepath.Join(t.TempDir(), "article.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	_, err = p.AnalyzeFile(context.Background(), path)
	assert.True(t, errors.Is(err, extract.ErrInputTooLarge), "got %v", err)
	assert.Contains(t, err.Error(), path)
}

func TestPipeline_Analyze_CachedMatchesFresh(t *testing.T) {
	p := NewPipeline(testConfig())
	text := "전문가에 따르면 무조건 100% 성공"

	first, err := p.Analyze(context.Background(), "a", text, extract.FormatText)
	require.NoError(t, err)
	second, err := p.Analyze(context.Background(), "b", text, extract.FormatText)
	require.NoError(t, err)

	assert.Equal(t, first.Result.Score, second.Result.Score)
	assert.Equal(t, first.Result.Highlights, second.Result.Highlights)
	assert.Equal(t, first.Segments, second.Segments)
}

func TestPipeline_Analyze_DelayHonorsContext(t *testing.T) {
	cfg := testConfig()
	cfg.Output.Delay = time.Minute
	p := NewPipeline(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Analyze(ctx, "test", "오늘 날씨가 좋습니다", extract.FormatText)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPipeline_AnalyzeFile_HTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "article.html")
	require.NoError(t, os.WriteFile(path, []byte("<html><body><p>새로운 연구 결과</p><script>충격</script></body></html>"), 0644))

	p := NewPipeline(testConfig())
	report, err := p.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "html", report.Format)
	assert.Equal(t, "새로운 연구 결과", report.Text)
	assert.Equal(t, []string{"연구"}, report.Result.DetectedKeywords.Trust)
	assert.Empty(t, report.Result.DetectedKeywords.Sensational)
}

func TestPipeline_AnalyzeFile_Missing(t *testing.T) {
	p := NewPipeline(testConfig())

	_, err := p.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestPipeline_RenderReport(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out", "report.json")
	mdPath := filepath.Join(dir, "out", "report.md")

	p := NewPipeline(testConfig())
	report, err := p.Analyze(context.Background(), "test", "속보: 보도에 따르면 공포가 확산", extract.FormatText)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, p.RenderReport(&out, report, jsonPath, mdPath, false))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Result.Score, decoded.Result.Score)

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "**[출처 불명] 보도에 따르면**")
	assert.Contains(t, string(md), "**[감정 자극] 공포**")

	assert.Contains(t, out.String(), "[출처 불명:보도에 따르면]")
	assert.Contains(t, out.String(), report.Result.Message)
}

func TestPipeline_RenderReport_Formats(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		cfg := testConfig()
		cfg.Output.Format = format
		p := NewPipeline(cfg)

		report, err := p.Analyze(context.Background(), "test", "오늘 날씨가 좋습니다", extract.FormatText)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, p.RenderReport(&out, report, "", "", false))
		assert.Contains(t, out.String(), "caution", "format %s", format)
	}
}

func TestRenderer_Highlighted(t *testing.T) {
	segments := []model.Segment{
		{Text: "대박", Category: model.CategoryExaggeration},
		{Text: " 소식"},
	}

	plain := NewRenderer(false).Highlighted(segments)
	assert.Equal(t, "[과장 표현:대박] 소식", plain)

	colored := NewRenderer(true).Highlighted(segments)
	assert.Equal(t, "\033[30;41m대박\033[0m 소식", colored)
}
