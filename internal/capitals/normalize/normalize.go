// Package normalize holds the string transforms shared by lookup, matching, and storage.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key returns the comparison and storage-key form of s: trimmed of surrounding
// whitespace and case-folded to lowercase. Keys are never shown to users.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Display returns the presentation form of s: trimmed, first rune upper-cased,
// remainder lower-cased. Applied only at presentation boundaries; the stored
// lookup key is always Key.
func Display(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
