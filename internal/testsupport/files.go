package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"menusample/internal/config"
)

// WriteCSV writes a header and rows to path, creating parent directories.
func WriteCSV(t testing.TB, path string, header []string, rows ...[]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header %s: %v", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows %s: %v", path, err)
	}
}

// Tables holds fixture rows for each input table, without headers.
type Tables struct {
	Restaurants [][]string
	Menus       [][]string
	CostIndex   [][]string
	Density     [][]string
	States      [][]string
}

// Column layouts used by WriteInputs.
var (
	RestaurantHeader = []string{"id", "position", "name", "score", "ratings", "category", "price_range", "full_address", "zip_code", "lat", "lng"}
	MenuHeader       = []string{"restaurant_id", "category", "name", "description", "price"}
	CostIndexHeader  = []string{"state_id", "city", "cost_of_living_index"}
	DensityHeader    = []string{"city", "state_id", "density"}
	StatesHeader     = []string{"State", "Abbreviation"}
)

// WriteInputs writes every input table of cfg.
func WriteInputs(t testing.TB, cfg *config.Config, tables Tables) {
	t.Helper()

	WriteCSV(t, cfg.Inputs.Restaurants, RestaurantHeader, tables.Restaurants...)
	WriteCSV(t, cfg.Inputs.Menus, MenuHeader, tables.Menus...)
	WriteCSV(t, cfg.Inputs.CostIndex, CostIndexHeader, tables.CostIndex...)
	WriteCSV(t, cfg.Inputs.Density, DensityHeader, tables.Density...)
	WriteCSV(t, cfg.Inputs.States, StatesHeader, tables.States...)
}

// AppletonTables is the single-restaurant Appleton, WI fixture.
func AppletonTables() Tables {
	return Tables{
		Restaurants: [][]string{
			{"1", "1", "Main Street Deli", "4.5", "20", "Deli", "$$", "123 Main, Appleton, WI 54911", "54911", "44.26", "-88.41"},
		},
		Menus: [][]string{
			{"1", "Salads", "House Salad", "Tomato & Basil", "9.0 USD"},
		},
		CostIndex: [][]string{
			{"wi", "appleton", "92.0"},
		},
		Density: [][]string{
			{"appleton", "wi", "1156"},
		},
		States: [][]string{
			{"Wisconsin", "WI"},
			{"Texas", "TX"},
		},
	}
}
