package ner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync/atomic"

	"menusample/internal/logging"
)

// Cache stores extractor responses keyed by CacheKey.
type Cache interface {
	Lookup(ctx context.Context, key string) ([]Entity, bool, error)
	Store(ctx context.Context, key string, entities []Entity) error
	Close() error
}

// CacheKey derives a stable key from the model and the classified text.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return strings.TrimSpace(model) + ":" + hex.EncodeToString(sum[:])
}

// CacheStats counts cache outcomes for one CachedExtractor.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// CachedExtractor consults a Cache before delegating to another extractor.
// Cache failures are logged and never fail an extraction.
type CachedExtractor struct {
	next   Extractor
	cache  Cache
	model  string
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedExtractor wraps next with cache. A nil cache disables caching.
func NewCachedExtractor(next Extractor, cache Cache, model string, logger *slog.Logger) *CachedExtractor {
	return &CachedExtractor{
		next:   next,
		cache:  cache,
		model:  model,
		logger: logging.NewComponentLogger(logger, "ner-cache"),
	}
}

// Extract returns the cached entities for text, or calls the wrapped
// extractor and stores its result.
func (c *CachedExtractor) Extract(ctx context.Context, text string) ([]Entity, error) {
	if c.cache == nil || strings.TrimSpace(text) == "" {
		return c.next.Extract(ctx, text)
	}
	key := CacheKey(c.model, text)
	entities, ok, err := c.cache.Lookup(ctx, key)
	if err != nil {
		c.logger.Warn("ner cache lookup failed",
			logging.String(logging.FieldEventType, "ner_cache_lookup_failed"),
			logging.Error(err))
	} else if ok {
		c.hits.Add(1)
		return entities, nil
	}
	c.misses.Add(1)

	entities, err = c.next.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Store(ctx, key, entities); err != nil {
		c.logger.Warn("ner cache store failed",
			logging.String(logging.FieldEventType, "ner_cache_store_failed"),
			logging.Error(err))
	}
	return entities, nil
}

// Stats reports the hit and miss counts so far.
func (c *CachedExtractor) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
