// Package geo enriches restaurants with location data: city and state parsed
// from the address, city population density, the state allow-list, full
// state names, and the cost-of-living index.
//
// Joins are keyed on (city, state) with both sides trimmed and lower-cased.
package geo
