package verify

import (
	"regexp"
	"strings"
)

// RE2 has no lookaround, so the boundaries consume one neighbouring rune (or
// anchor at the text ends). MatchString searches every start position, which
// gives the same yes/no answer as a lookbehind/lookahead pair would.
const (
	whitespaceClass = `\s\v\x{85}\p{Z}`
	leftBoundary    = `(?:^|[^A-Za-z0-9])`
	rightBoundary   = `(?:[^A-Za-z0-9-]|$)`
)

var numberToken = regexp.MustCompile(`\d+(?:\.\d+)?`)

// FieldPattern returns the regular expression source used to find value in
// label text. Each rune of value is escaped; a space becomes "one or more
// whitespace" and a hyphen becomes "zero or more whitespace or hyphens". The
// result is case-insensitive and bounded on both sides.
//
// value is expected to be whitespace-collapsed already (see CollapseWhitespace);
// each remaining space maps to one whitespace run.
func FieldPattern(value string) string {
	var b strings.Builder
	b.WriteString(`(?i)`)
	b.WriteString(leftBoundary)
	for _, r := range value {
		switch r {
		case ' ':
			b.WriteString(`[` + whitespaceClass + `]+`)
		case '-':
			b.WriteString(`[` + whitespaceClass + `\-]*`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(rightBoundary)
	return b.String()
}

// MatchTextField reports whether value occurs in labelText as a bounded,
// case-insensitive match that tolerates OCR line breaks and hyphen/space
// variants. An empty value never matches.
func MatchTextField(value, labelText string) bool {
	value = CollapseWhitespace(value)
	if value == "" {
		return false
	}
	re, err := regexp.Compile(FieldPattern(value))
	if err != nil {
		return false
	}
	return re.MatchString(labelText)
}

// NumberToken returns the first integer or decimal number in s ("45",
// "12.5"), and false when s contains none.
func NumberToken(s string) (string, bool) {
	tok := numberToken.FindString(s)
	return tok, tok != ""
}

// MatchAlcoholContent reports whether the first number found in the declared
// alcohol content appears in labelText with no digit directly before or
// after it, so "45" does not match "1945" or "450".
func MatchAlcoholContent(value, labelText string) bool {
	tok, ok := NumberToken(value)
	if !ok {
		return false
	}
	re, err := regexp.Compile(`(?:^|\D)` + regexp.QuoteMeta(tok) + `(?:\D|$)`)
	if err != nil {
		return false
	}
	return re.MatchString(labelText)
}
