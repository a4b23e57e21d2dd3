package keywords

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Matcher answers which entries of a fixed phrase list occur in a text.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	automaton aho.AhoCorasick
	entries   []string // deduplicated, non-empty, insertion order
}

// NewMatcher compiles an Aho-Corasick automaton over entries.
// Empty and repeated entries are dropped.
func NewMatcher(entries []string) *Matcher {
	m := &Matcher{entries: Dedupe(entries)}
	if len(m.entries) == 0 {
		return m
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	m.automaton = builder.Build(m.entries)
	return m
}

// Present returns the entries that occur in text, in entry order.
// Overlapping occurrences all count, so both "절대" and "절대로" are found in "절대로".
func (m *Matcher) Present(text string) []string {
	found := []string{}
	if len(m.entries) == 0 || text == "" {
		return found
	}

	hit := make([]bool, len(m.entries))
	iter := m.automaton.IterOverlappingByte([]byte(text))
	for next := iter.Next(); next != nil; next = iter.Next() {
		hit[next.Pattern()] = true
	}

	for i, entry := range m.entries {
		if hit[i] {
			found = append(found, entry)
		}
	}
	return found
}

// Dedupe drops empty strings and repeats, keeping first-seen order
func Dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
