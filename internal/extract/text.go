package extract

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrEmptyInput is returned when the input holds no text after trimming
var ErrEmptyInput = errors.New("empty input")

// ErrInputTooLarge is returned when the input exceeds the configured byte limit
var ErrInputTooLarge = errors.New("input too large")

// EmptyInputMessage is shown to users who submit blank text
const EmptyInputMessage = "뉴스 텍스트를 입력해주세요."

// Format selects how raw input is turned into text
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown input format %q (want text or html)", s)
	}
}

// Reader reads news text from plain or HTML sources
type Reader struct {
	maxBytes int64
}

// NewReader creates a reader that accepts at most maxBytes per input
func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &Reader{maxBytes: maxBytes}
}

// Read returns the text of r. Plain text is returned as typed; HTML is
// reduced to its visible text. Blank input yields ErrEmptyInput and input
// over the byte limit yields ErrInputTooLarge; neither is ever truncated.
func (e *Reader) Read(r io.Reader, format Format) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if int64(len(body)) > e.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrInputTooLarge, e.maxBytes)
	}

	text := string(body)
	if format == FormatHTML {
		text, err = VisibleText(text)
		if err != nil {
			return "", fmt.Errorf("parse html: %w", err)
		}
	}

	if err := Validate(text); err != nil {
		return "", err
	}
	return text, nil
}

// Check applies the reader's byte limit and the blank-text rule to text
// that did not come through Read
func (e *Reader) Check(text string) error {
	if int64(len(text)) > e.maxBytes {
		return fmt.Errorf("%w: limit is %d bytes", ErrInputTooLarge, e.maxBytes)
	}
	return Validate(text)
}

// Validate rejects text that is empty after trimming whitespace
func Validate(text string) error {
	if TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	return nil
}

// VisibleText extracts the text nodes of an HTML document, skipping
// scripts and styles. Block-level elements are separated by newlines.
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				if buf.Len() > 0 && !endsWithSpace(buf.String()) {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) && buf.Len() > 0 && !endsWithSpace(buf.String()) {
			buf.WriteString("\n")
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String()), nil
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n")
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6", "article", "section", "blockquote", "tr":
		return true
	}
	return false
}
