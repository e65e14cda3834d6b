// Package dataset defines the row types that flow through the sampling
// pipeline and reads and writes them as CSV.
//
// Loaders verify required columns up front and report a missing one as
// services.ErrSchemaMissing naming the table and column. Cells are trimmed on
// load; an empty cell stands for a missing value.
package dataset
