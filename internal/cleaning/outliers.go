package cleaning

import (
	"math"
	"sort"

	"menusample/internal/dataset"
)

// DefaultWhisker is the classical Tukey fence multiplier.
const DefaultWhisker = 1.5

// Quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks (position q*(n-1)).
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// IQRBounds returns the inclusive fence [Q1-w*IQR, Q3+w*IQR] of values. ok is
// false when values is empty.
func IQRBounds(values []float64, whisker float64) (lower, upper float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1 - whisker*iqr, q3 + whisker*iqr, true
}

// RemovePriceOutliersIQR keeps the rows whose price lies inside the IQR fence
// of all prices. Order is preserved; empty input returns an empty slice.
func RemovePriceOutliersIQR(rows []dataset.SampledRow, whisker float64) []dataset.SampledRow {
	prices := make([]float64, len(rows))
	for i, row := range rows {
		prices[i] = row.Price
	}
	lower, upper, ok := IQRBounds(prices, whisker)
	out := make([]dataset.SampledRow, 0, len(rows))
	if !ok {
		return out
	}
	for _, row := range rows {
		if row.Price >= lower && row.Price <= upper {
			out = append(out, row)
		}
	}
	return out
}
