// Package metadata exports per-city reference values from a sample for the
// scoring service.
package metadata

import (
	"encoding/json"
	"io"
	"os"

	"menusample/internal/dataset"
	"menusample/internal/fileutil"
	"menusample/internal/textutil"
)

// CityInfo is the reference data of one city.
type CityInfo struct {
	Density           float64 `json:"density"`
	CostOfLivingIndex float64 `json:"cost_of_living_index"`
}

// StateCityMap maps state -> city -> info. Keys are lower-cased.
type StateCityMap map[string]map[string]CityInfo

// Build collects the first occurrence of each (state, city). Rows without a
// cost of living index or with a blank state or city are skipped.
func Build(rows []dataset.SampledRow) StateCityMap {
	out := make(StateCityMap)
	for _, row := range rows {
		state := textutil.Key(row.StateID)
		city := textutil.Key(row.City)
		if state == "" || city == "" || row.CostOfLivingIndex == nil {
			continue
		}
		cities, ok := out[state]
		if !ok {
			cities = make(map[string]CityInfo)
			out[state] = cities
		}
		if _, seen := cities[city]; seen {
			continue
		}
		cities[city] = CityInfo{
			Density:           float64(row.Density),
			CostOfLivingIndex: *row.CostOfLivingIndex,
		}
	}
	return out
}

// Cities returns the total number of cities across states.
func (m StateCityMap) Cities() int {
	total := 0
	for _, cities := range m {
		total += len(cities)
	}
	return total
}

// Encode writes m as indented JSON. Map keys are emitted in sorted order.
func Encode(w io.Writer, m StateCityMap) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(m)
}

// Write persists m to path atomically.
func Write(path string, m StateCityMap) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, m)
	})
}

// Read loads a previously written map.
func Read(path string) (StateCityMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m StateCityMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
