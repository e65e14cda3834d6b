// Package textutil provides the text normalization helpers shared by the
// cleaning and enrichment stages: HTML unescaping, NFKD normalization,
// join-key folding, and markup stripping.
package textutil
