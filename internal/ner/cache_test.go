package ner

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheKeyStable(t *testing.T) {
	a := CacheKey("model", "tomato basil")
	if a != CacheKey("model", "tomato basil") {
		t.Fatal("expected identical keys for identical input")
	}
	if a == CacheKey("other", "tomato basil") || a == CacheKey("model", "tomato") {
		t.Fatal("expected model and text to change the key")
	}
}

func TestSQLiteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("OpenSQLiteCache returned error: %v", err)
	}
	defer cache.Close()

	if _, ok, err := cache.Lookup(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	want := []Entity{{Start: 0, End: 6, EntityGroup: "FOOD"}}
	if err := cache.Store(ctx, "k", want); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	got, ok, err := cache.Lookup(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("unexpected cached entities %+v", got)
	}

	if err := cache.Store(ctx, "empty", nil); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	got, ok, err = cache.Lookup(ctx, "empty")
	if err != nil || !ok || got == nil || len(got) != 0 {
		t.Fatalf("expected cached empty list, got %#v ok=%v err=%v", got, ok, err)
	}
}

func TestSQLiteCacheExpiresEntries(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatalf("OpenSQLiteCache returned error: %v", err)
	}
	defer cache.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	if err := cache.Store(ctx, "k", []Entity{}); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, err := cache.Lookup(ctx, "k"); err != nil || ok {
		t.Fatalf("expected expired entry to miss, got ok=%v err=%v", ok, err)
	}
	removed, err := cache.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 pruned entry, got %d", removed)
	}
}

func TestCachedExtractorUsesCache(t *testing.T) {
	ctx := context.Background()
	cache, err := OpenSQLiteCache(ctx, filepath.Join(t.TempDir(), "cache.db"), 0)
	if err != nil {
		t.Fatalf("OpenSQLiteCache returned error: %v", err)
	}
	defer cache.Close()

	calls := 0
	inner := ExtractorFunc(func(ctx context.Context, text string) ([]Entity, error) {
		calls++
		return []Entity{{Start: 0, End: 3, EntityGroup: "FOOD"}}, nil
	})
	cached := NewCachedExtractor(inner, cache, "m", nil)

	for i := 0; i < 3; i++ {
		entities, err := cached.Extract(ctx, "egg salad")
		if err != nil {
			t.Fatalf("Extract returned error: %v", err)
		}
		if len(entities) != 1 {
			t.Fatalf("unexpected entities %+v", entities)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one inner call, got %d", calls)
	}
	if stats := cached.Stats(); stats.Hits != 2 || stats.Misses != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
