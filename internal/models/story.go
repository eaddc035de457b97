package models

import (
	"regexp"
	"strings"
)

// paragraphBreak matches one or more blank lines (whitespace-only lines count as blank)
var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// SplitParagraphs splits story text into trimmed, non-empty paragraphs.
// At most max paragraphs are returned; excess ones are dropped silently.
// A max of zero or less disables the cap.
func SplitParagraphs(text string, max int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, part := range paragraphBreak.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		paragraphs = append(paragraphs, part)
		if max > 0 && len(paragraphs) == max {
			break
		}
	}
	return paragraphs
}
