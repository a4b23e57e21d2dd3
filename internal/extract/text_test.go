package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestReader_PlainTextKeptAsTyped(t *testing.T) {
	r := NewReader(0)
	input := "  충격! 전 세계가\n경악했다  "

	text, err := r.Read(strings.NewReader(input), FormatText)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != input {
		t.Errorf("Expected text unchanged, got %q", text)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(0)

	for _, input := range []string{"", "   ", "\n\t "} {
		_, err := r.Read(strings.NewReader(input), FormatText)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Expected ErrEmptyInput for %q, got %v", input, err)
		}
	}
}

func TestReader_MaxBytes(t *testing.T) {
	r := NewReader(23)

	// 23 bytes exactly is accepted
	text, err := r.Read(strings.NewReader("오늘 날씨가 좋습"), FormatText)
	if err != nil {
		t.Fatalf("Expected no error at the limit, got %v", err)
	}
	if text != "오늘 날씨가 좋습" {
		t.Errorf("Expected text unchanged, got %q", text)
	}

	// one byte more is rejected, never cut
	for _, input := range []string{"오늘 날씨가 좋습니다 충격 경악 긴급", "오늘 날씨가 좋습 "} {
		text, err = r.Read(strings.NewReader(input), FormatText)
		if !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("Expected ErrInputTooLarge for %q, got %v", input, err)
		}
		if text != "" {
			t.Errorf("Expected no text on rejection, got %q", text)
		}
	}
}

func TestReader_HTML(t *testing.T) {
	r := NewReader(0)
	page := `
	<html>
	<head><title>제목</title><style>p { color: red }</style></head>
	<body>
		<p>충격! 전 세계가   경악했다</p>
		<script>var x = "대박";</script>
		<p>연구 <b>결과</b></p>
	</body>
	</html>
	`

	text, err := r.Read(strings.NewReader(page), FormatHTML)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "충격! 전 세계가 경악했다\n연구 결과" {
		t.Errorf("Unexpected text: %q", text)
	}
	if strings.Contains(text, "대박") || strings.Contains(text, "제목") {
		t.Errorf("Expected script and head to be skipped, got %q", text)
	}
}

func TestReader_HTMLWithoutText(t *testing.T) {
	r := NewReader(0)

	_, err := r.Read(strings.NewReader("<html><body><script>1</script></body></html>"), FormatHTML)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"HTML", FormatHTML, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate_ScriptWhitespace(t *testing.T) {
	if err := Validate("\uFEFF \u3000\u00A0"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected BOM and wide spaces to count as blank, got %v", err)
	}
	if err := Validate("\u0085"); err != nil {
		t.Errorf("Expected U+0085 to count as text, got %v", err)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"오늘 날씨가 좋습니다", 3},
		{"오늘\uFEFF날씨가", 2},
		{"오늘\u0085날씨가", 1},
		{"  \t\n ", 0},
	}

	for _, tt := range tests {
		if got := len(Fields(tt.in)); got != tt.want {
			t.Errorf("Fields(%q) = %d fields, want %d", tt.in, got, tt.want)
		}
	}
}

func TestReader_Check(t *testing.T) {
	r := NewReader(10)

	if err := r.Check("짧은 글"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := r.Check("조금 더 긴 글입니다"); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("Expected ErrInputTooLarge, got %v", err)
	}
	if err := r.Check(" \n"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}
