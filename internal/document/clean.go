package document

import (
	"regexp"
	"strings"
)

var controlChars = regexp.MustCompile(`[\x{00}-\x{08}\x{0B}\x{0C}\x{0E}-\x{1F}\x{7F}-\x{9F}]`)

// Clean strips control characters, collapses whitespace runs to one space
// and trims the result.
func Clean(text string) string {
	text = controlChars.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// Preview returns the first n characters of text followed by "...".
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
