package ner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"menusample/internal/config"
	"menusample/internal/logging"
)

// Service is the extractor built from configuration together with the cache
// it owns.
type Service struct {
	Extractor Extractor
	Client    *HTTPClient
	Cached    *CachedExtractor
	cache     Cache
}

// NewService builds the HTTP client and, unless disabled, the configured
// response cache.
func NewService(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ner service: config is nil")
	}
	logger = logging.NewComponentLogger(logger, "ner")
	if cfg.NER.RetryAttempts > 0 {
		opts = append([]Option{WithRetryMaxAttempts(cfg.NER.RetryAttempts)}, opts...)
	}
	client := NewHTTPClient(Config{
		Endpoint:       cfg.NER.Endpoint,
		Model:          cfg.NER.Model,
		APIToken:       cfg.NER.APIToken,
		TimeoutSeconds: cfg.NER.TimeoutSeconds,
	}, opts...)

	svc := &Service{Extractor: client, Client: client}
	ttl := time.Duration(cfg.NER.CacheTTLHours) * time.Hour

	var (
		cache Cache
		err   error
	)
	switch cfg.NER.Cache {
	case config.CacheNone, "":
	case config.CacheSQLite:
		cache, err = OpenSQLiteCache(ctx, cfg.NERCachePath(), ttl)
	case config.CacheRedis:
		cache, err = NewRedisCache(ctx, cfg.NER.RedisAddr, cfg.NER.RedisDB, ttl)
	default:
		return nil, fmt.Errorf("ner service: unknown cache backend %q", cfg.NER.Cache)
	}
	if err != nil {
		return nil, fmt.Errorf("ner service: %w", err)
	}
	if cache != nil {
		svc.cache = cache
		svc.Cached = NewCachedExtractor(client, cache, client.Model(), logger)
		svc.Extractor = svc.Cached
		logger.Debug("ner cache enabled",
			logging.String("backend", cfg.NER.Cache),
			logging.Duration("ttl", ttl))
	}
	return svc, nil
}

// Close releases the cache, if any.
func (s *Service) Close() error {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.Close()
}
