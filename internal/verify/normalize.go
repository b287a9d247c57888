package verify

import (
	"strings"
	"unicode"
)

// Normalize prepares text for substring comparison:
//   - converts to lowercase
//   - drops every rune that is not a-z, 0-9 or whitespace
//   - collapses whitespace runs (newlines included) to a single space
//   - trims leading/trailing whitespace
//
// Non-ASCII letters are dropped, not transliterated.
func Normalize(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return CollapseWhitespace(b.String())
}

// CollapseWhitespace replaces every whitespace run with a single space and
// trims the ends. Case and punctuation are left alone.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
