package textutil

import (
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lowerCaser = cases.Lower(language.Und)

// Normalize unescapes HTML entities, trims surrounding whitespace, and applies
// Unicode NFKD compatibility decomposition.
func Normalize(value string) string {
	return norm.NFKD.String(strings.TrimSpace(html.UnescapeString(value)))
}

// Lower lower-cases value using language-neutral Unicode case mapping.
func Lower(value string) string {
	return lowerCaser.String(value)
}

// Key builds a join key: trimmed and lower-cased.
func Key(value string) string {
	return Lower(strings.TrimSpace(value))
}

// Unescape decodes HTML entities and trims surrounding whitespace.
func Unescape(value string) string {
	return strings.TrimSpace(html.UnescapeString(value))
}
