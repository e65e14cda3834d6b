package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// SampleColumns is the persisted column order of a training sample.
var SampleColumns = []string{
	"price_range",
	"state_id",
	"city",
	"density",
	"category",
	"price",
	"ingredients",
	"cost_of_living_index",
}

// EncodeSample writes rows as CSV with a header. Ingredients are written as a
// JSON array of strings; a nil cost index is written as an empty cell.
func EncodeSample(w io.Writer, rows []SampledRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SampleColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(SampleColumns))
	for i, row := range rows {
		ingredients := row.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		encoded, err := json.Marshal(ingredients)
		if err != nil {
			return fmt.Errorf("encode ingredients of row %d: %w", i, err)
		}
		record[0] = row.PriceRange
		record[1] = row.StateID
		record[2] = row.City
		record[3] = strconv.FormatInt(int64(row.Density), 10)
		record[4] = row.Category
		record[5] = formatFloat(row.Price)
		record[6] = string(encoded)
		record[7] = ""
		if row.CostOfLivingIndex != nil {
			record[7] = formatFloat(*row.CostOfLivingIndex)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadSample loads a persisted training sample. A malformed ingredients cell
// decodes to an empty list; an empty cost cell decodes to a nil index.
func ReadSample(ctx context.Context, path string) ([]SampledRow, error) {
	t, err := readTable(ctx, "sample", path, SampleColumns...)
	if err != nil {
		return nil, err
	}
	rows := make([]SampledRow, 0, len(t.records))
	for i, rec := range t.records {
		row := SampledRow{
			PriceRange:  t.cell(rec, "price_range"),
			StateID:     t.cell(rec, "state_id"),
			City:        t.cell(rec, "city"),
			Category:    t.cell(rec, "category"),
			Ingredients: decodeIngredients(t.cell(rec, "ingredients")),
		}
		if raw := t.cell(rec, "density"); raw != "" {
			density, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("sample row %d: density %q: %w", i+1, raw, err)
			}
			row.Density = int32(density)
		}
		if raw := t.cell(rec, "price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("sample row %d: price %q: %w", i+1, raw, err)
			}
			row.Price = price
		}
		if raw := t.cell(rec, "cost_of_living_index"); raw != "" {
			index, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("sample row %d: cost_of_living_index %q: %w", i+1, raw, err)
			}
			row.CostOfLivingIndex = &index
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeIngredients(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Field returns the persisted text of column for the row.
func (r SampledRow) Field(column string) (string, bool) {
	switch column {
	case "price_range":
		return r.PriceRange, true
	case "state_id":
		return r.StateID, true
	case "city":
		return r.City, true
	case "density":
		return strconv.FormatInt(int64(r.Density), 10), true
	case "category":
		return r.Category, true
	case "price":
		return formatFloat(r.Price), true
	case "cost_of_living_index":
		if r.CostOfLivingIndex == nil {
			return "", true
		}
		return formatFloat(*r.CostOfLivingIndex), true
	default:
		return "", false
	}
}
