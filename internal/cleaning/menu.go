package cleaning

import (
	"math"
	"strconv"
	"strings"

	"menusample/internal/dataset"
	"menusample/internal/textutil"
)

// MetaCategory is the synthetic menu section injected by the delivery site.
const MetaCategory = "Picked for you"

type menuKey struct {
	restaurantID int64
	category     string
	description  string
	price        float64
}

// CleanMenu normalizes menu text, parses prices, and drops rows that cannot be
// used: empty descriptions, unparseable or non-positive prices, the meta
// category, and exact duplicates (first occurrence kept). The input is not
// modified.
func CleanMenu(items []dataset.MenuItem) []dataset.MenuItem {
	out := make([]dataset.MenuItem, 0, len(items))
	seen := make(map[menuKey]struct{}, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			continue
		}
		item.Category = textutil.Normalize(item.Category)
		item.Description = textutil.Normalize(item.Description)
		if item.Description == "" {
			continue
		}
		price, ok := ParsePrice(item.RawPrice)
		if !ok || price <= 0 {
			continue
		}
		item.Price = price
		if item.Category == MetaCategory {
			continue
		}
		key := menuKey{item.RestaurantID, item.Category, item.Description, item.Price}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ParsePrice removes the "USD" currency code and parses the remainder as a
// float. NaN and infinities are rejected.
func ParsePrice(raw string) (float64, bool) {
	value := strings.TrimSpace(strings.ReplaceAll(raw, "USD", ""))
	if value == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}
