package ner

import (
	"context"
	"fmt"

	"menusample/internal/dataset"
	"menusample/internal/entity"
	"menusample/internal/services"
)

// Progress receives one increment per processed row. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	Add(int) error
}

// ExtractIngredients runs extractor over each row's description, in order,
// and replaces the description with the merged entity strings. Any extractor
// failure aborts the whole call; rows are never given empty ingredients in
// place of a failed inference.
func ExtractIngredients(ctx context.Context, rows []dataset.SampledRow, extractor Extractor, progress Progress) ([]dataset.SampledRow, error) {
	if extractor == nil {
		return nil, services.Wrap(services.ErrConfiguration, "ner", "extract ingredients", "extractor not configured", nil)
	}
	out := make([]dataset.SampledRow, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entities, err := extractor.Extract(ctx, row.Description)
		if err != nil {
			return nil, services.Wrap(services.ErrInference, "ner", "extract ingredients",
				fmt.Sprintf("row %d (restaurant %d)", i, row.RestaurantID), err)
		}
		row.Ingredients = entity.MergeSpans(row.Description, Spans(entities))
		row.Description = ""
		out = append(out, row)
		if progress != nil {
			_ = progress.Add(1)
		}
	}
	return out, nil
}

// Spans converts entities into labelled spans.
func Spans(entities []Entity) []entity.Span {
	spans := make([]entity.Span, 0, len(entities))
	for _, e := range entities {
		spans = append(spans, entity.Span{Start: e.Start, End: e.End, Label: e.EntityGroup})
	}
	return spans
}
