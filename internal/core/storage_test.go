package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"aquacore/internal/infra/persistence/memory"
	"aquacore/internal/infra/persistence/sqlite"
)

// helper to unset and restore env vars
func withEnv(key, value string, fn func()) {
	orig, had := os.LookupEnv(key)
	if value == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, value)
	}
	defer func() {
		if had {
			_ = os.Setenv(key, orig)
		} else {
			_ = os.Unsetenv(key)
		}
	}()
	fn()
}

func TestOpenPersistentStore_DefaultSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aquacore.db")
	withEnv("AQUACORE_STORAGE_DRIVER", "", func() {
		withEnv("AQUACORE_SQLITE_PATH", path, func() {
			store, err := OpenPersistentStore(NewDefaultRulesEngine(nil))
			if err != nil {
				t.Skipf("sqlite unavailable: %v", err)
			}
			sqliteStore, ok := store.(*sqlite.Store)
			if !ok {
				t.Fatalf("expected *sqlite.Store, got %T", store)
			}
			defer func() { _ = sqliteStore.Close() }()
			if _, err := sqliteStore.RunInTransaction(context.Background(), func(tx Transaction) error { return nil }); err != nil {
				t.Fatalf("empty transaction: %v", err)
			}
		})
	})
}

func TestOpenPersistentStore_Memory(t *testing.T) {
	withEnv("AQUACORE_STORAGE_DRIVER", "memory", func() {
		store, err := OpenPersistentStore(NewDefaultRulesEngine(nil))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, ok := store.(*memory.Store); !ok {
			t.Fatalf("expected *memory.Store, got %T", store)
		}
	})
}

func TestOpenPersistentStore_UnknownDriver(t *testing.T) {
	withEnv("AQUACORE_STORAGE_DRIVER", "cassandra", func() {
		if _, err := OpenPersistentStore(NewDefaultRulesEngine(nil)); err == nil {
			t.Fatalf("expected unknown driver error")
		}
	})
}
