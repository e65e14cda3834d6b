package geo

import "menusample/internal/dataset"

// ExcludedCostCity is a city whose cost-of-living data is known to be wrong;
// its rows are removed when the index is attached.
const ExcludedCostCity = "layton"

// AttachCostIndex left-joins rows with the cost table on (city, state).
// Unmatched rows keep a nil index; rows of ExcludedCostCity are dropped.
func AttachCostIndex(rows []dataset.SampledRow, table []dataset.CostIndex) []dataset.SampledRow {
	index := make(map[cityKey][]float64, len(table))
	for _, ref := range table {
		key := keyOf(ref.City, ref.StateID)
		index[key] = append(index[key], ref.Index)
	}

	out := make([]dataset.SampledRow, 0, len(rows))
	for _, row := range rows {
		if row.City == ExcludedCostCity {
			continue
		}
		matches := index[cityKey{city: row.City, state: row.StateID}]
		if len(matches) == 0 {
			row.CostOfLivingIndex = nil
			out = append(out, row)
			continue
		}
		for _, value := range matches {
			row.CostOfLivingIndex = &value
			out = append(out, row)
		}
	}
	return out
}
