package ner

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"menusample/internal/sqlitedb"
)

//go:embed schema.sql
var cacheSchemaSQL string

const cacheSchemaVersion = 1

// SQLiteCache persists responses in a local SQLite database. Entries older
// than the TTL are treated as misses; a zero TTL keeps entries forever.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLiteCache opens or creates the cache database at path.
func OpenSQLiteCache(ctx context.Context, path string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ner cache: %w", err)
	}
	if err := sqlitedb.InitSchema(ctx, db, cacheSchemaSQL, cacheSchemaVersion); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init ner cache: %w", err)
	}
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *SQLiteCache) Lookup(ctx context.Context, key string) ([]Entity, bool, error) {
	ctx = sqlitedb.EnsureContext(ctx)
	var (
		payload string
		created string
	)
	err := sqlitedb.RetryOnBusy(ctx, func() error {
		return c.db.QueryRowContext(ctx,
			"SELECT entities, created_at FROM ner_cache WHERE cache_key = ?", key,
		).Scan(&payload, &created)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup ner cache: %w", err)
	}
	if c.ttl > 0 {
		createdAt, parseErr := time.Parse(time.RFC3339Nano, created)
		if parseErr != nil || c.now().Sub(createdAt) > c.ttl {
			return nil, false, nil
		}
	}
	var entities []Entity
	if err := json.Unmarshal([]byte(payload), &entities); err != nil {
		return nil, false, fmt.Errorf("decode cached entities: %w", err)
	}
	if entities == nil {
		entities = []Entity{}
	}
	return entities, true, nil
}

func (c *SQLiteCache) Store(ctx context.Context, key string, entities []Entity) error {
	if entities == nil {
		entities = []Entity{}
	}
	payload, err := json.Marshal(entities)
	if err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	_, err = sqlitedb.Exec(ctx, c.db,
		`INSERT INTO ner_cache (cache_key, entities, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET entities = excluded.entities, created_at = excluded.created_at`,
		key, string(payload), c.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store ner cache: %w", err)
	}
	return nil
}

// Prune deletes entries older than the TTL and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.ttl).UTC().Format(time.RFC3339Nano)
	res, err := sqlitedb.Exec(ctx, c.db, "DELETE FROM ner_cache WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune ner cache: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
