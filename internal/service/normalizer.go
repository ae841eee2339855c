package service

import (
	"regexp"
	"strings"
)

var (
	blankLineRuns    = regexp.MustCompile(`\n{3,}`)
	horizontalSpaces = regexp.MustCompile(`[ \t]+`)
)

// NormalizeText canonicalizes raw extracted text: CRLF/CR become LF, runs of
// three or more line breaks collapse to one blank line, runs of horizontal
// whitespace collapse to a single space, and the result is trimmed. Pure and
// idempotent; an empty string stays empty.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = horizontalSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
