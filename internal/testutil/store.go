// Package testutil provides deterministic fakes shared by the tests.
package testutil

import (
	"testing"

	"jobtrack/internal/store"
	"jobtrack/internal/tracker"
)

// NewTestStore creates an in-memory record store with the full collection
// schema. It is closed automatically when the test completes.
func NewTestStore(t *testing.T) tracker.Store {
	t.Helper()

	st := store.NewMemoryStore()
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewTestSQLiteStore creates an in-memory SQLite-backed store with the
// schema migrated, for tests that exercise the real backend.
func NewTestSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}
