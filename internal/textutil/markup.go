package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup removes HTML tags from value and returns the concatenated text
// content, each text node trimmed and empty nodes skipped. Input without tags
// comes back trimmed; entities are decoded by the tokenizer.
func StripMarkup(value string) string {
	if !strings.ContainsAny(value, "<&") {
		return strings.TrimSpace(value)
	}
	tokenizer := html.NewTokenizer(strings.NewReader(value))
	var b strings.Builder
	skip := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			if isRawTextTag(tokenizer) {
				skip++
			}
		case html.EndTagToken:
			if isRawTextTag(tokenizer) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
				b.WriteString(text)
			}
		}
	}
}

func isRawTextTag(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch string(name) {
	case "script", "style":
		return true
	default:
		return false
	}
}
