package geo

import (
	"strings"

	"menusample/internal/dataset"
)

// ParseAddresses derives city and state from each restaurant's address and
// drops rows that do not match. The address is split on commas and read from
// the end; at least three segments are required. Two shapes are accepted:
//
//	..., city, ST, zip    state is the second-to-last segment
//	..., city, ST zip     state is the first token of the last segment
//
// The state must be exactly two letters and the city must be non-empty. Both
// are lower-cased and trimmed.
func ParseAddresses(restaurants []dataset.Restaurant) []dataset.GeoRestaurant {
	out := make([]dataset.GeoRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		city, state, ok := ParseAddress(r.FullAddress)
		if !ok {
			continue
		}
		out = append(out, dataset.GeoRestaurant{Restaurant: r, City: city, StateID: state})
	}
	return out
}

// ParseAddress extracts the lower-cased city and state code from a single
// address.
func ParseAddress(address string) (city, state string, ok bool) {
	segments := strings.Split(strings.ToLower(strings.TrimSpace(address)), ",")
	n := len(segments)
	if n < 3 {
		return "", "", false
	}

	if candidate := strings.TrimSpace(segments[n-2]); isStateCode(candidate) {
		city = strings.TrimSpace(segments[n-3])
		if city == "" {
			return "", "", false
		}
		return city, candidate, true
	}

	fields := strings.Fields(segments[n-1])
	if len(fields) == 0 || len(fields) > 2 || !isStateCode(fields[0]) {
		return "", "", false
	}
	city = strings.TrimSpace(segments[n-2])
	if city == "" {
		return "", "", false
	}
	return city, fields[0], true
}

func isStateCode(value string) bool {
	if len(value) != 2 {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 'a' || value[i] > 'z' {
			return false
		}
	}
	return true
}
