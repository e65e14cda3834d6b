package selection

import (
	"reflect"
	"testing"

	"menusample/internal/dataset"
)

func geo(id int64, state, city, priceRange string) dataset.GeoRestaurant {
	return dataset.GeoRestaurant{
		Restaurant: dataset.Restaurant{ID: id, PriceRange: priceRange},
		StateID:    state,
		City:       city,
		Density:    100,
	}
}

func menuRows(id int64, categories ...string) []dataset.MenuItem {
	rows := make([]dataset.MenuItem, len(categories))
	for i, c := range categories {
		rows[i] = dataset.MenuItem{RestaurantID: id, Category: c, Description: c + " item", Price: float64(i + 1)}
	}
	return rows
}

func TestComputeTopCategoriesKeepsTopNPerCity(t *testing.T) {
	var menu []dataset.MenuItem
	menu = append(menu, menuRows(1, "Wraps", "Salads", "Salads", "Drinks", "Sandwiches")...)
	menu = append(menu, menuRows(2, "Salads", "Wraps")...)
	menu = append(menu, menuRows(99, "Salads")...)

	restaurants := []dataset.GeoRestaurant{geo(1, "wi", "appleton", "$"), geo(2, "tx", "austin", "$$")}

	joined, top := ComputeTopCategories(menu, restaurants, 2)
	if len(joined) != len(menu) {
		t.Fatalf("expected left join to keep every menu row, got %d", len(joined))
	}
	if joined[len(joined)-1].Matched {
		t.Fatal("expected unknown restaurant to stay unmatched")
	}

	want := []dataset.CityCategoryCount{
		{StateID: "wi", City: "appleton", MenuCategory: "Salads", Count: 2},
		{StateID: "tx", City: "austin", MenuCategory: "Salads", Count: 1},
		{StateID: "tx", City: "austin", MenuCategory: "Wraps", Count: 1},
		{StateID: "wi", City: "appleton", MenuCategory: "Drinks", Count: 1},
	}
	if !reflect.DeepEqual(top, want) {
		t.Fatalf("top categories = %+v\nwant %+v", top, want)
	}
}

func TestPickTopCitiesRespectsPerStateBound(t *testing.T) {
	top := []dataset.CityCategoryCount{
		{StateID: "wi", City: "appleton", MenuCategory: "Salads", Count: 5},
		{StateID: "wi", City: "appleton", MenuCategory: "Wraps", Count: 2},
		{StateID: "wi", City: "madison", MenuCategory: "Salads", Count: 7},
		{StateID: "wi", City: "green bay", MenuCategory: "Sandwiches", Count: 3},
		{StateID: "wi", City: "oshkosh", MenuCategory: "Salads", Count: 7},
		{StateID: "tx", City: "austin", MenuCategory: "Wraps", Count: 1},
		{StateID: "tx", City: "dallas", MenuCategory: "Drinks", Count: 50},
	}
	focus := []string{"Sandwiches", "Salads", "Wraps"}

	got := PickTopCities(top, focus, 2)
	want := []dataset.TopCity{
		{StateID: "tx", City: "austin", Count: 1},
		{StateID: "wi", City: "appleton", Count: 7},
		{StateID: "wi", City: "madison", Count: 7},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PickTopCities = %+v\nwant %+v", got, want)
	}

	for perState := 1; perState <= 4; perState++ {
		counts := map[string]int{}
		for _, city := range PickTopCities(top, focus, perState) {
			counts[city.StateID]++
		}
		for state, n := range counts {
			if n > perState {
				t.Fatalf("state %s has %d cities, bound %d", state, n, perState)
			}
		}
	}
}

func TestBuildFinalMenuFrame(t *testing.T) {
	menu := []dataset.MenuItem{
		{RestaurantID: 1, Category: "Sandwiches", Description: "Club", Price: 9},
		{RestaurantID: 1, Category: "Drinks", Description: "Soda", Price: 2},
		{RestaurantID: 1, Category: "Salads", Description: "Cobb", Price: 11},
		{RestaurantID: 2, Category: "Wraps", Description: "Veggie", Price: 8},
		{RestaurantID: 3, Category: "Wraps", Description: "Chicken", Price: 8},
		{RestaurantID: 4, Category: "Wraps", Description: "Falafel", Price: 7},
	}
	restaurants := []dataset.GeoRestaurant{
		geo(1, "wi", "appleton", "$"),
		geo(2, "wi", "appleton", ""),
		geo(3, "tx", "dallas", "$$"),
		geo(4, "wi", "appleton", "$$$"),
	}
	joined, _ := ComputeTopCategories(menu, restaurants, 15)
	cities := []dataset.TopCity{{StateID: "wi", City: "appleton", Count: 4}}

	got := BuildFinalMenuFrame(menu, joined, cities, []string{"Sandwiches", "Salads", "Wraps"})

	var descriptions []string
	for _, row := range got {
		descriptions = append(descriptions, row.Description)
		if row.City != "appleton" || row.StateID != "wi" {
			t.Fatalf("row outside selected cities: %+v", row)
		}
	}
	if want := []string{"Club", "Cobb", "Falafel"}; !reflect.DeepEqual(descriptions, want) {
		t.Fatalf("descriptions = %v, want %v", descriptions, want)
	}
	if got[0].PriceRange != "$" || got[0].Density != 100 || got[0].RestaurantID != 1 {
		t.Fatalf("unexpected restaurant fields: %+v", got[0])
	}
}
