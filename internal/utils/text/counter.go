// Package text provides small text utilities shared by the chunker and the summarizers.
// All lengths are measured in Unicode code points, never bytes, so multi-byte
// characters count as one.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")      // 5
//	CountRunes("こんにちは")  // 5
//	CountRunes("")           // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// TruncateRunes returns at most limit runes of text and reports whether anything was cut.
// A non-positive limit returns the text unchanged.
func TruncateRunes(text string, limit int) (string, bool) {
	if limit <= 0 || len(text) <= limit {
		// len in bytes is an upper bound on the rune count
		return text, false
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i], true
		}
		n++
	}
	return text, false
}

// FirstWords returns the first n words of text joined by single spaces.
func FirstWords(text string, n int) string {
	words := strings.Fields(text)
	if n >= 0 && len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
