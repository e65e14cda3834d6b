// Package dwh flattens crawled restaurant documents into the restaurant and
// menu tables the sampling pipeline reads.
//
// Documents arrive as JSON lines, one restaurant per line, each carrying a
// menu_items array. Nested objects are flattened into dotted column names.
// Restaurants get 1-based surrogate ids in _id order and every menu item
// references its restaurant through restaurant_id.
package dwh
