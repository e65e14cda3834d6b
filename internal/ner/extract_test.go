package ner

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"menusample/internal/dataset"
	"menusample/internal/services"
)

type countingProgress struct{ n int }

func (p *countingProgress) Add(n int) error {
	p.n += n
	return nil
}

func TestExtractIngredients(t *testing.T) {
	rows := []dataset.SampledRow{
		{RestaurantID: 1, Description: "tomato basil pesto"},
		{RestaurantID: 2, Description: "spicy tomato"},
		{RestaurantID: 3, Description: ""},
	}
	extractor := ExtractorFunc(func(ctx context.Context, text string) ([]Entity, error) {
		switch text {
		case "tomato basil pesto":
			return []Entity{
				{Start: 0, End: 6, EntityGroup: "ING"},
				{Start: 7, End: 12, EntityGroup: "ING"},
				{Start: 11, End: 18, EntityGroup: "ING"},
			}, nil
		case "spicy tomato":
			return []Entity{
				{Start: 0, End: 5, EntityGroup: "LAB"},
				{Start: 6, End: 12, EntityGroup: "ING"},
			}, nil
		default:
			return []Entity{}, nil
		}
	})

	progress := &countingProgress{}
	out, err := ExtractIngredients(context.Background(), rows, extractor, progress)
	if err != nil {
		t.Fatalf("ExtractIngredients returned error: %v", err)
	}
	want := [][]string{{"tomato basil pesto"}, {"spicy", "tomato"}, {}}
	for i, row := range out {
		if !reflect.DeepEqual(row.Ingredients, want[i]) {
			t.Fatalf("row %d: expected %v, got %#v", i, want[i], row.Ingredients)
		}
		if row.Description != "" {
			t.Fatalf("row %d: expected description to be dropped", i)
		}
	}
	if progress.n != 3 {
		t.Fatalf("expected 3 progress increments, got %d", progress.n)
	}
	if rows[0].Description == "" {
		t.Fatal("input rows must not be modified")
	}
}

func TestExtractIngredientsFailureIsFatal(t *testing.T) {
	rows := []dataset.SampledRow{{Description: "a"}, {Description: "b"}}
	boom := errors.New("model offline")
	extractor := ExtractorFunc(func(ctx context.Context, text string) ([]Entity, error) {
		if text == "b" {
			return nil, boom
		}
		return []Entity{}, nil
	})
	out, err := ExtractIngredients(context.Background(), rows, extractor, nil)
	if !errors.Is(err, services.ErrInference) || !errors.Is(err, boom) {
		t.Fatalf("expected inference failure wrapping cause, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no partial output, got %v", out)
	}
}
