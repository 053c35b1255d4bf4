// Package extract pulls typed contact fields out of unstructured search
// snippets, via fixed regular expressions and named-entity recognition.
package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/contact-cli/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Loose phone shape: optional leading +, then 10-20 characters drawn
	// from digits, whitespace, parentheses, and hyphens.
	phonePattern = regexp.MustCompile(`\+?[\d\s()-]{10,20}`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Email returns the first email address in text, or the sentinel.
func Email(text string) string {
	if m := emailPattern.FindString(text); m != "" {
		return m
	}
	return model.Sentinel
}

// Phone returns the first phone-shaped substring in text with internal
// whitespace collapsed and surrounding whitespace trimmed, or the sentinel.
func Phone(text string) string {
	m := phonePattern.FindString(text)
	if m == "" {
		return model.Sentinel
	}
	m = strings.TrimSpace(whitespaceRun.ReplaceAllString(m, " "))
	if m == "" {
		return model.Sentinel
	}
	return m
}
