package selection

import (
	"sort"

	"menusample/internal/dataset"
)

// JoinedRow is a menu row left-joined with the geo restaurant it belongs to.
// Matched is false when no restaurant carried the id.
type JoinedRow struct {
	RestaurantID int64
	MenuCategory string
	Matched      bool
	Restaurant   dataset.GeoRestaurant
}

type categoryKey struct {
	state    string
	city     string
	category string
}

// ComputeTopCategories joins menu rows with restaurants on id and counts menu
// rows per (state, city, category) over the matched rows. Counts are ordered
// by descending count with ties kept in (state, city, category) order, and
// only the first topN categories of each city are returned.
func ComputeTopCategories(menu []dataset.MenuItem, restaurants []dataset.GeoRestaurant, topN int) ([]JoinedRow, []dataset.CityCategoryCount) {
	byID := make(map[int64][]int, len(restaurants))
	for i, r := range restaurants {
		byID[r.ID] = append(byID[r.ID], i)
	}

	joined := make([]JoinedRow, 0, len(menu))
	counts := make(map[categoryKey]int)
	for _, item := range menu {
		matches := byID[item.RestaurantID]
		if len(matches) == 0 {
			joined = append(joined, JoinedRow{RestaurantID: item.RestaurantID, MenuCategory: item.Category})
			continue
		}
		for _, idx := range matches {
			r := restaurants[idx]
			joined = append(joined, JoinedRow{
				RestaurantID: item.RestaurantID,
				MenuCategory: item.Category,
				Matched:      true,
				Restaurant:   r,
			})
			if item.Category != "" {
				counts[categoryKey{r.StateID, r.City, item.Category}]++
			}
		}
	}

	ranked := make([]dataset.CityCategoryCount, 0, len(counts))
	for key, count := range counts {
		ranked = append(ranked, dataset.CityCategoryCount{
			StateID:      key.state,
			City:         key.city,
			MenuCategory: key.category,
			Count:        count,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.StateID != b.StateID {
			return a.StateID < b.StateID
		}
		if a.City != b.City {
			return a.City < b.City
		}
		return a.MenuCategory < b.MenuCategory
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	type cityKey struct{ state, city string }
	taken := make(map[cityKey]int)
	top := make([]dataset.CityCategoryCount, 0, len(ranked))
	for _, row := range ranked {
		key := cityKey{row.StateID, row.City}
		if taken[key] >= topN {
			continue
		}
		taken[key]++
		top = append(top, row)
	}
	return joined, top
}
