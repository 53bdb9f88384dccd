package demand

import (
	"regexp"
	"strings"
	"unicode"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

func splitSentences(text string) []string {
	return sentenceBreak.Split(text, -1)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// stripPunctuation drops every rune that is neither a word character nor whitespace.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func tokenize(s string) []string {
	return strings.Fields(stripPunctuation(s))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func truncate[T any](in []T, n int) []T {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}
