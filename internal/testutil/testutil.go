// Package testutil provides shared test helpers for setting up task stores.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/raido/internal/store"
)

// TestStore creates a temporary SQLite task store that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
