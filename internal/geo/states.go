package geo

import (
	"menusample/internal/dataset"
	"menusample/internal/textutil"
)

// FilterToStates keeps rows whose state is in allowed, compared
// case-insensitively. Order is preserved.
func FilterToStates(rows []dataset.GeoRestaurant, allowed []string) []dataset.GeoRestaurant {
	set := make(map[string]struct{}, len(allowed))
	for _, state := range allowed {
		set[textutil.Key(state)] = struct{}{}
	}
	out := make([]dataset.GeoRestaurant, 0, len(rows))
	for _, row := range rows {
		if _, ok := set[textutil.Key(row.StateID)]; ok {
			out = append(out, row)
		}
	}
	return out
}

// StateNames builds the lower-cased abbreviation to full name lookup. When an
// abbreviation repeats, the later row wins.
func StateNames(table []dataset.StateName) map[string]string {
	names := make(map[string]string, len(table))
	for _, row := range table {
		key := textutil.Key(row.Abbreviation)
		if key == "" {
			continue
		}
		names[key] = row.Name
	}
	return names
}

// ReplaceStateNames swaps state codes for full names. Codes missing from
// names are left unchanged.
func ReplaceStateNames(rows []dataset.SampledRow, names map[string]string) []dataset.SampledRow {
	out := make([]dataset.SampledRow, len(rows))
	for i, row := range rows {
		if name, ok := names[row.StateID]; ok {
			row.StateID = name
		}
		out[i] = row
	}
	return out
}
