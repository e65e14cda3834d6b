package cleaning

import (
	"strings"

	"menusample/internal/dataset"
)

// Sync enforces referential integrity between restaurants and menu rows.
// Restaurants without a price tier or address are dropped first; then each
// side keeps only the ids present on the other. Afterwards the set of menu
// restaurant ids equals the set of restaurant ids.
func Sync(restaurants []dataset.Restaurant, menu []dataset.MenuItem) ([]dataset.Restaurant, []dataset.MenuItem) {
	menuIDs := make(map[int64]struct{}, len(menu))
	for _, item := range menu {
		menuIDs[item.RestaurantID] = struct{}{}
	}

	keptRestaurants := make([]dataset.Restaurant, 0, len(restaurants))
	restaurantIDs := make(map[int64]struct{}, len(restaurants))
	for _, r := range restaurants {
		if strings.TrimSpace(r.PriceRange) == "" || strings.TrimSpace(r.FullAddress) == "" {
			continue
		}
		if _, ok := menuIDs[r.ID]; !ok {
			continue
		}
		keptRestaurants = append(keptRestaurants, r)
		restaurantIDs[r.ID] = struct{}{}
	}

	keptMenu := make([]dataset.MenuItem, 0, len(menu))
	for _, item := range menu {
		if _, ok := restaurantIDs[item.RestaurantID]; ok {
			keptMenu = append(keptMenu, item)
		}
	}
	return keptRestaurants, keptMenu
}
