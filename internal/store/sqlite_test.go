package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"jobtrack/internal/model"
	"jobtrack/internal/store"
	"jobtrack/internal/tracker"
)

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) tracker.Store {
		st, err := store.NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteStore() error = %v", err)
		}
		t.Cleanup(func() { st.Close() })
		return st
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobtrack.db")

	st, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := st.Put(ctx, tracker.CollApplications, model.Document{
		"id":      "a1",
		"company": "Acme",
		"status":  "applied",
	}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening runs the migrations again as a no-op and finds the data.
	st2, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() reopen error = %v", err)
	}
	defer st2.Close()

	doc, err := st2.Get(ctx, tracker.CollApplications, "a1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doc == nil || doc.String("company") != "Acme" {
		t.Errorf("Get() = %v, want the record written before reopen", doc)
	}

	byStatus, err := st2.GetByIndex(ctx, tracker.CollApplications, tracker.IdxStatus, "applied")
	if err != nil {
		t.Fatalf("GetByIndex() error = %v", err)
	}
	if len(byStatus) != 1 {
		t.Errorf("len(GetByIndex()) = %d, want 1 (index survives reopen)", len(byStatus))
	}
}

func TestSQLiteStore_Path(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer st.Close()

	if st.Path() != ":memory:" {
		t.Errorf("Path() = %q, want %q", st.Path(), ":memory:")
	}
}
