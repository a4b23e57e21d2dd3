// Package highlight splits a text into plain and highlighted segments for
// the phrases a scorer flagged.
package highlight

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/credence/internal/model"
)

// candidate is one phrase to search for, with the category it renders as
type candidate struct {
	word     string
	category model.Category
	length   int // UTF-16 code units; orders scan priority
}

// Highlight partitions text into segments. Concatenating the Text of the
// returned segments yields text exactly. Empty text yields no segments.
func Highlight(text string, spans model.HighlightSpans) []model.Segment {
	return Segments(text, Matches(text, spans))
}

// Matches returns the accepted, non-overlapping keyword occurrences in
// text, ordered by start offset.
//
// Longer phrases are scanned first so they win over phrases they contain.
// Each phrase is found left to right, resuming after every hit whether or
// not the hit was accepted.
func Matches(text string, spans model.HighlightSpans) []model.Match {
	if text == "" || spans.IsEmpty() {
		return nil
	}

	var matches []model.Match

	for _, c := range candidates(spans) {
		index := 0
		for {
			offset := strings.Index(text[index:], c.word)
			if offset < 0 {
				break
			}
			start := index + offset
			end := start + len(c.word)

			if !overlapsAny(matches, start, end) {
				matches = append(matches, model.Match{
					Start:    start,
					End:      end,
					Category: c.category,
				})
			}
			index = end
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// Segments renders sorted, non-overlapping matches as a segment sequence
func Segments(text string, matches []model.Match) []model.Segment {
	segments := make([]model.Segment, 0, 2*len(matches)+1)
	last := 0

	for _, m := range matches {
		if m.Start > last {
			segments = append(segments, model.Segment{Text: text[last:m.Start]})
		}
		segments = append(segments, model.Segment{
			Text:     text[m.Start:m.End],
			Category: m.Category,
		})
		last = m.End
	}

	if last < len(text) {
		segments = append(segments, model.Segment{Text: text[last:]})
	}
	return segments
}

// candidates flattens spans in category order, drops empty words and
// stable-sorts by length, longest first
func candidates(spans model.HighlightSpans) []candidate {
	var out []candidate
	for _, category := range model.Categories {
		for _, word := range spans.Words(category) {
			if word == "" {
				continue
			}
			out = append(out, candidate{
				word:     word,
				category: category,
				length:   utf16Len(word),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].length > out[j].length
	})
	return out
}

func overlapsAny(matches []model.Match, start, end int) bool {
	for _, m := range matches {
		if m.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// utf16Len counts UTF-16 code units, the unit phrase length is ranked by
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}
