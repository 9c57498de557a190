package usage

import (
	"strings"
	"unicode"
)

// normalizeTone folds case and punctuation so "Cheerful!" and "cheerful"
// share one counter.
func normalizeTone(tone string) string {
	lowered := strings.ToLower(strings.TrimSpace(tone))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// whitespace and punctuation both collapse to a single space
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}
