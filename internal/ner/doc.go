// Package ner extracts ingredient entities from menu item descriptions.
//
// An Extractor returns token-classification entities for one text. HTTPClient
// calls a Hugging Face style inference endpoint with retry and backoff, and
// CachedExtractor memoizes responses in SQLite or Redis so repeated runs over
// the same descriptions do not re-query the model. ExtractIngredients drives
// an extractor over sampled rows and folds the entities into ingredient lists.
package ner
