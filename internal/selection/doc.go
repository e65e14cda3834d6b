// Package selection ranks menu categories per city, picks the top cities per
// state for the focus categories, and assembles the menu rows of the selected
// restaurants.
//
// Ranking is deterministic: every sort is stable over a fixed key order, so
// identical inputs always select the same cities and rows.
package selection
