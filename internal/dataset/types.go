package dataset

// MenuItem is one row of the menu table. Price is populated by the cleaner
// from RawPrice.
type MenuItem struct {
	RestaurantID int64
	Category     string
	Description  string
	RawPrice     string
	Price        float64
}

// Restaurant is one row of the restaurant table. Optional columns keep their
// raw text; an empty string means the value is missing.
type Restaurant struct {
	ID          int64
	Score       string
	Ratings     string
	Category    string
	PriceRange  string
	FullAddress string
	Lat         string
	Lng         string
}

// GeoRestaurant is a restaurant with the location fields derived from its
// address and, after the density merge, the population density of its city.
type GeoRestaurant struct {
	Restaurant
	City    string
	StateID string
	Density int32
}

// CostIndex is one row of the cost-of-living reference table.
type CostIndex struct {
	StateID string
	City    string
	Index   float64
}

// DensityRow is one row of the city density reference table. Density keeps
// its raw text and is parsed during the merge.
type DensityRow struct {
	City    string
	StateID string
	Density string
}

// StateName maps a two-letter abbreviation to the full state name.
type StateName struct {
	Abbreviation string
	Name         string
}

// CityCategoryCount is the number of menu rows of one category in one city.
type CityCategoryCount struct {
	StateID      string
	City         string
	MenuCategory string
	Count        int
}

// TopCity is a city selected for sampling together with its summed focus
// category count.
type TopCity struct {
	StateID string
	City    string
	Count   int
}

// SampledRow is one row of the training sample. Description is only carried
// until ingredient extraction; RestaurantID is not persisted.
type SampledRow struct {
	RestaurantID      int64
	PriceRange        string
	StateID           string
	City              string
	Density           int32
	Category          string
	Description       string
	Price             float64
	Ingredients       []string
	CostOfLivingIndex *float64
}

// Complete reports whether every persisted column holds a value.
func (r SampledRow) Complete() bool {
	return r.PriceRange != "" &&
		r.StateID != "" &&
		r.City != "" &&
		r.Category != "" &&
		r.Ingredients != nil &&
		r.CostOfLivingIndex != nil
}
