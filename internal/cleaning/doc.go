// Package cleaning holds the row-level cleaning stages of the sampling
// pipeline: menu normalization, restaurant/menu synchronization, IQR price
// outlier removal, price tier bucketing, and ingredient list cleanup.
//
// Every function returns a new slice and never fails on a bad row; such rows
// are dropped and the caller observes the change in row counts.
package cleaning
