package cleaning

import "menusample/internal/dataset"

// Price tiers written to the sample.
const (
	PriceCheap     = "cheap"
	PriceModerate  = "moderate"
	PriceExpensive = "expensive"
)

// NormalizePriceRange maps a symbolic tier to its bucket. Anything other than
// "$" or "$$", including a missing value, is expensive.
func NormalizePriceRange(value string) string {
	switch value {
	case "$":
		return PriceCheap
	case "$$":
		return PriceModerate
	default:
		return PriceExpensive
	}
}

// NormalizePriceRanges applies NormalizePriceRange to every row.
func NormalizePriceRanges(rows []dataset.SampledRow) []dataset.SampledRow {
	out := make([]dataset.SampledRow, len(rows))
	for i, row := range rows {
		row.PriceRange = NormalizePriceRange(row.PriceRange)
		out[i] = row
	}
	return out
}
