// Package entity merges token-classification spans into entity strings.
package entity

// Span is a labelled character range [Start, End) of a text, counted in runes.
type Span struct {
	Start int
	End   int
	Label string
}

// MergeSpans folds adjacent spans with the same label into one and returns the
// text covered by each resulting span, in order. Two spans are adjacent when
// the gap between the previous end and the next start is at most one
// character, or they overlap by one. Offsets are clamped to the text.
func MergeSpans(text string, spans []Span) []string {
	merged := make([]Span, 0, len(spans))
	for _, span := range spans {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			gap := span.Start - last.End
			if last.Label == span.Label && gap >= -1 && gap <= 1 {
				last.End = span.End
				continue
			}
		}
		merged = append(merged, span)
	}

	runes := []rune(text)
	out := make([]string, 0, len(merged))
	for _, span := range merged {
		start := clamp(span.Start, 0, len(runes))
		end := clamp(span.End, start, len(runes))
		out = append(out, string(runes[start:end]))
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
