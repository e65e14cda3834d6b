package selection

import "menusample/internal/dataset"

type restaurantHead struct {
	restaurantID int64
	priceRange   string
	state        string
	city         string
	density      int32
}

type finalKey struct {
	head        restaurantHead
	category    string
	description string
	price       float64
}

// BuildFinalMenuFrame assembles the pre-extraction sample. Joined rows with a
// price tier in one of the selected cities contribute their restaurant; every
// menu row of those restaurants in a focus category becomes one sample row.
// Exact duplicates are removed. Rows follow restaurant first appearance, then
// menu order.
func BuildFinalMenuFrame(menu []dataset.MenuItem, joined []JoinedRow, cities []dataset.TopCity, focus []string) []dataset.SampledRow {
	type cityKey struct{ state, city string }
	selected := make(map[cityKey]struct{}, len(cities))
	for _, c := range cities {
		selected[cityKey{c.StateID, c.City}] = struct{}{}
	}

	var heads []restaurantHead
	seenHeads := make(map[restaurantHead]struct{})
	for _, row := range joined {
		if !row.Matched || row.Restaurant.PriceRange == "" {
			continue
		}
		if _, ok := selected[cityKey{row.Restaurant.StateID, row.Restaurant.City}]; !ok {
			continue
		}
		head := restaurantHead{
			restaurantID: row.RestaurantID,
			priceRange:   row.Restaurant.PriceRange,
			state:        row.Restaurant.StateID,
			city:         row.Restaurant.City,
			density:      row.Restaurant.Density,
		}
		if _, dup := seenHeads[head]; dup {
			continue
		}
		seenHeads[head] = struct{}{}
		heads = append(heads, head)
	}

	menuByRestaurant := make(map[int64][]int, len(menu))
	for i, item := range menu {
		menuByRestaurant[item.RestaurantID] = append(menuByRestaurant[item.RestaurantID], i)
	}
	focusSet := toSet(focus)

	out := make([]dataset.SampledRow, 0)
	seen := make(map[finalKey]struct{})
	for _, head := range heads {
		for _, idx := range menuByRestaurant[head.restaurantID] {
			item := menu[idx]
			if _, ok := focusSet[item.Category]; !ok {
				continue
			}
			key := finalKey{head: head, category: item.Category, description: item.Description, price: item.Price}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, dataset.SampledRow{
				RestaurantID: head.restaurantID,
				PriceRange:   head.priceRange,
				StateID:      head.state,
				City:         head.city,
				Density:      head.density,
				Category:     item.Category,
				Description:  item.Description,
				Price:        item.Price,
			})
		}
	}
	return out
}
