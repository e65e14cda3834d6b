package ner

import "context"

// Entity is one aggregated token-classification result. Start and End are
// character offsets into the text that was classified.
type Entity struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word,omitempty"`
	Score       float64 `json:"score,omitempty"`
}

// Extractor classifies a text into entities.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Entity, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, text string) ([]Entity, error)

func (f ExtractorFunc) Extract(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}
