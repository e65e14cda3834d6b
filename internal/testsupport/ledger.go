package testsupport

import (
	"context"
	"testing"

	"menusample/internal/config"
	"menusample/internal/ledger"
)

// MustOpenLedger opens the run ledger of cfg and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.LedgerPath())
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
