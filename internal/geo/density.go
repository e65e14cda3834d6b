package geo

import (
	"math"
	"strconv"

	"menusample/internal/dataset"
	"menusample/internal/textutil"
)

type cityKey struct {
	city  string
	state string
}

func keyOf(city, state string) cityKey {
	return cityKey{city: textutil.Key(city), state: textutil.Key(state)}
}

// DensityCities returns the set of lower-cased city names in the density table.
func DensityCities(table []dataset.DensityRow) map[string]struct{} {
	cities := make(map[string]struct{}, len(table))
	for _, row := range table {
		cities[textutil.Key(row.City)] = struct{}{}
	}
	return cities
}

// RestrictToCities keeps rows whose city is in cities.
func RestrictToCities(rows []dataset.GeoRestaurant, cities map[string]struct{}) []dataset.GeoRestaurant {
	out := make([]dataset.GeoRestaurant, 0, len(rows))
	for _, row := range rows {
		if _, ok := cities[row.City]; ok {
			out = append(out, row)
		}
	}
	return out
}

// MergeDensity joins rows with the density table on (city, state). Reference
// keys are trimmed and lower-cased and densities are truncated to int32. Rows
// without a usable match are dropped; a key listed more than once yields one
// row per listing, in table order.
func MergeDensity(rows []dataset.GeoRestaurant, table []dataset.DensityRow) []dataset.GeoRestaurant {
	index := make(map[cityKey][]int32, len(table))
	for _, ref := range table {
		density, ok := parseDensity(ref.Density)
		if !ok {
			continue
		}
		key := keyOf(ref.City, ref.StateID)
		index[key] = append(index[key], density)
	}

	out := make([]dataset.GeoRestaurant, 0, len(rows))
	for _, row := range rows {
		for _, density := range index[cityKey{city: row.City, state: row.StateID}] {
			row.Density = density
			out = append(out, row)
		}
	}
	return out
}

func parseDensity(raw string) (int32, bool) {
	value, err := strconv.ParseFloat(textutil.Key(raw), 64)
	if err != nil || math.IsNaN(value) {
		return 0, false
	}
	value = math.Trunc(value)
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, false
	}
	return int32(value), true
}
