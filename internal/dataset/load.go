package dataset

import (
	"context"
	"math"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Paths lists the CSV files read by LoadAll.
type Paths struct {
	Restaurants string
	Menus       string
	CostIndex   string
	Density     string
	States      string
}

// Tables holds the raw input tables of a pipeline run.
type Tables struct {
	Restaurants []Restaurant
	Menus       []MenuItem
	CostIndex   []CostIndex
	Density     []DensityRow
	States      []StateName
}

// LoadAll reads the five input tables concurrently. The first failure cancels
// the remaining loads and is returned.
func LoadAll(ctx context.Context, paths Paths) (*Tables, error) {
	var tables Tables
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tables.Restaurants, err = LoadRestaurants(gctx, paths.Restaurants)
		return err
	})
	g.Go(func() (err error) {
		tables.Menus, err = LoadMenus(gctx, paths.Menus)
		return err
	})
	g.Go(func() (err error) {
		tables.CostIndex, err = LoadCostIndex(gctx, paths.CostIndex)
		return err
	})
	g.Go(func() (err error) {
		tables.Density, err = LoadDensity(gctx, paths.Density)
		return err
	})
	g.Go(func() (err error) {
		tables.States, err = LoadStates(gctx, paths.States)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &tables, nil
}

// LoadRestaurants reads the restaurant table. Rows whose id is not an integer
// are skipped.
func LoadRestaurants(ctx context.Context, path string) ([]Restaurant, error) {
	t, err := readTable(ctx, "restaurants", path, "id", "price_range", "full_address")
	if err != nil {
		return nil, err
	}
	out := make([]Restaurant, 0, len(t.records))
	for _, rec := range t.records {
		id, ok := parseID(t.cell(rec, "id"))
		if !ok {
			continue
		}
		out = append(out, Restaurant{
			ID:          id,
			Score:       t.cell(rec, "score"),
			Ratings:     t.cell(rec, "ratings"),
			Category:    t.cell(rec, "category"),
			PriceRange:  t.cell(rec, "price_range"),
			FullAddress: t.cell(rec, "full_address"),
			Lat:         t.cell(rec, "lat"),
			Lng:         t.cell(rec, "lng"),
		})
	}
	return out, nil
}

// LoadMenus reads the menu table. Rows whose restaurant_id is not an integer
// are skipped; description and price keep their raw text.
func LoadMenus(ctx context.Context, path string) ([]MenuItem, error) {
	t, err := readTable(ctx, "menus", path, "restaurant_id", "category", "description", "price")
	if err != nil {
		return nil, err
	}
	out := make([]MenuItem, 0, len(t.records))
	for _, rec := range t.records {
		id, ok := parseID(t.cell(rec, "restaurant_id"))
		if !ok {
			continue
		}
		out = append(out, MenuItem{
			RestaurantID: id,
			Category:     t.cell(rec, "category"),
			Description:  t.cell(rec, "description"),
			RawPrice:     t.cell(rec, "price"),
		})
	}
	return out, nil
}

// LoadCostIndex reads the cost-of-living table. Rows without a numeric index
// are skipped.
func LoadCostIndex(ctx context.Context, path string) ([]CostIndex, error) {
	t, err := readTable(ctx, "cost_index", path, "state_id", "city", "cost_of_living_index")
	if err != nil {
		return nil, err
	}
	out := make([]CostIndex, 0, len(t.records))
	for _, rec := range t.records {
		index, err := strconv.ParseFloat(t.cell(rec, "cost_of_living_index"), 64)
		if err != nil || math.IsNaN(index) {
			continue
		}
		out = append(out, CostIndex{
			StateID: t.cell(rec, "state_id"),
			City:    t.cell(rec, "city"),
			Index:   index,
		})
	}
	return out, nil
}

// LoadDensity reads the city density table.
func LoadDensity(ctx context.Context, path string) ([]DensityRow, error) {
	t, err := readTable(ctx, "density", path, "city", "state_id", "density")
	if err != nil {
		return nil, err
	}
	out := make([]DensityRow, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, DensityRow{
			City:    t.cell(rec, "city"),
			StateID: t.cell(rec, "state_id"),
			Density: t.cell(rec, "density"),
		})
	}
	return out, nil
}

// LoadStates reads the state name table. Rows with a blank abbreviation are
// skipped.
func LoadStates(ctx context.Context, path string) ([]StateName, error) {
	t, err := readTable(ctx, "states", path, "abbreviation", "state")
	if err != nil {
		return nil, err
	}
	out := make([]StateName, 0, len(t.records))
	for _, rec := range t.records {
		abbr := t.cell(rec, "abbreviation")
		if abbr == "" {
			continue
		}
		out = append(out, StateName{Abbreviation: abbr, Name: t.cell(rec, "state")})
	}
	return out, nil
}

// parseID accepts integers and integral floats such as "12.0".
func parseID(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}
