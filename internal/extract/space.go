package extract

import (
	"strings"
	"unicode"
)

// IsSpace reports whether r separates words. The set is the ECMAScript
// whitespace and line terminator set: Unicode White_Space plus U+FEFF,
// without U+0085.
func IsSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// Fields splits s around runs of IsSpace
func Fields(s string) []string {
	return strings.FieldsFunc(s, IsSpace)
}

// TrimSpace removes leading and trailing IsSpace runes
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}
