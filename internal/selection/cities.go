package selection

import (
	"sort"

	"menusample/internal/dataset"
)

// PickTopCities sums the focus category counts of each city and keeps the
// perState best cities of every state. The result is ordered by state, then
// by descending count; equal counts keep city name order.
func PickTopCities(top []dataset.CityCategoryCount, focus []string, perState int) []dataset.TopCity {
	focusSet := toSet(focus)

	type cityKey struct{ state, city string }
	sums := make(map[cityKey]int)
	for _, row := range top {
		if _, ok := focusSet[row.MenuCategory]; !ok {
			continue
		}
		sums[cityKey{row.StateID, row.City}] += row.Count
	}

	cities := make([]dataset.TopCity, 0, len(sums))
	for key, count := range sums {
		cities = append(cities, dataset.TopCity{StateID: key.state, City: key.city, Count: count})
	}
	sort.Slice(cities, func(i, j int) bool {
		a, b := cities[i], cities[j]
		if a.StateID != b.StateID {
			return a.StateID < b.StateID
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.City < b.City
	})

	out := make([]dataset.TopCity, 0, len(cities))
	perStateTaken := make(map[string]int)
	for _, city := range cities {
		if perStateTaken[city.StateID] >= perState {
			continue
		}
		perStateTaken[city.StateID]++
		out = append(out, city)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
