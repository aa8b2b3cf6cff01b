package store_test

import (
	"context"
	"testing"

	"jobtrack/internal/model"
	"jobtrack/internal/tracker"
)

// runStoreContract exercises the tracker.Store contract every backend must
// satisfy: upsert by id, (nil, nil) on missing reads, index rows kept in
// step with writes, idempotent deletes.
func runStoreContract(t *testing.T, newStore func(t *testing.T) tracker.Store) {
	ctx := context.Background()

	t.Run("get on a missing id returns nil without error", func(t *testing.T) {
		st := newStore(t)

		doc, err := st.Get(ctx, tracker.CollApplications, "missing")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if doc != nil {
			t.Errorf("Get() = %v, want nil", doc)
		}
	})

	t.Run("put then get round-trips the document", func(t *testing.T) {
		st := newStore(t)

		in := model.Document{
			"id":      "a1",
			"company": "Acme",
			"status":  "applied",
			"tags":    []any{"remote"},
		}
		if err := st.Put(ctx, tracker.CollApplications, in); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, err := st.Get(ctx, tracker.CollApplications, "a1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got == nil {
			t.Fatal("Get() = nil, want document")
		}
		if got.String("company") != "Acme" {
			t.Errorf("company = %q, want %q", got.String("company"), "Acme")
		}
		tags, ok := got["tags"].([]any)
		if !ok || len(tags) != 1 || tags[0] != "remote" {
			t.Errorf("tags = %v, want [remote]", got["tags"])
		}
	})

	t.Run("put is an upsert", func(t *testing.T) {
		st := newStore(t)

		if err := st.Put(ctx, tracker.CollApplications, model.Document{"id": "a1", "status": "applied"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := st.Put(ctx, tracker.CollApplications, model.Document{"id": "a1", "status": "interview"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		all, err := st.GetAll(ctx, tracker.CollApplications)
		if err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("len(GetAll()) = %d, want 1", len(all))
		}
		if all[0].String("status") != "interview" {
			t.Errorf("status = %q, want %q", all[0].String("status"), "interview")
		}
	})

	t.Run("put without an id fails", func(t *testing.T) {
		st := newStore(t)

		if err := st.Put(ctx, tracker.CollApplications, model.Document{"company": "Acme"}); err == nil {
			t.Error("Put() error = nil, want missing-id error")
		}
	})

	t.Run("index rows follow the document", func(t *testing.T) {
		st := newStore(t)

		if err := st.Put(ctx, tracker.CollTasks, model.Document{"id": "t1", "applicationId": "a1"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := st.Put(ctx, tracker.CollTasks, model.Document{"id": "t2", "applicationId": "a2"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		docs, err := st.GetByIndex(ctx, tracker.CollTasks, tracker.IdxApplicationID, "a1")
		if err != nil {
			t.Fatalf("GetByIndex() error = %v", err)
		}
		if len(docs) != 1 || docs[0].ID() != "t1" {
			t.Fatalf("GetByIndex() = %v, want [t1]", docs)
		}

		// Re-pointing the document moves its index row.
		if err := st.Put(ctx, tracker.CollTasks, model.Document{"id": "t1", "applicationId": "a2"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		docs, err = st.GetByIndex(ctx, tracker.CollTasks, tracker.IdxApplicationID, "a1")
		if err != nil {
			t.Fatalf("GetByIndex() error = %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("stale index row survived re-point: %v", docs)
		}
		docs, err = st.GetByIndex(ctx, tracker.CollTasks, tracker.IdxApplicationID, "a2")
		if err != nil {
			t.Fatalf("GetByIndex() error = %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("len(GetByIndex(a2)) = %d, want 2", len(docs))
		}
	})

	t.Run("delete removes the document and its index rows", func(t *testing.T) {
		st := newStore(t)

		if err := st.Put(ctx, tracker.CollTasks, model.Document{"id": "t1", "applicationId": "a1"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := st.Delete(ctx, tracker.CollTasks, "t1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		doc, err := st.Get(ctx, tracker.CollTasks, "t1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if doc != nil {
			t.Errorf("Get() after delete = %v, want nil", doc)
		}
		docs, err := st.GetByIndex(ctx, tracker.CollTasks, tracker.IdxApplicationID, "a1")
		if err != nil {
			t.Fatalf("GetByIndex() error = %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("index rows survived delete: %v", docs)
		}
	})

	t.Run("delete of a missing id is a no-op", func(t *testing.T) {
		st := newStore(t)

		if err := st.Delete(ctx, tracker.CollTasks, "missing"); err != nil {
			t.Errorf("Delete() error = %v, want nil", err)
		}
	})

	t.Run("clear empties one collection and leaves the rest", func(t *testing.T) {
		st := newStore(t)

		if err := st.Put(ctx, tracker.CollApplications, model.Document{"id": "a1"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := st.Put(ctx, tracker.CollContacts, model.Document{"id": "c1"}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if err := st.Clear(ctx, tracker.CollApplications); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}

		apps, err := st.GetAll(ctx, tracker.CollApplications)
		if err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
		if len(apps) != 0 {
			t.Errorf("len(applications) = %d, want 0", len(apps))
		}
		contacts, err := st.GetAll(ctx, tracker.CollContacts)
		if err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
		if len(contacts) != 1 {
			t.Errorf("len(contacts) = %d, want 1", len(contacts))
		}
	})

	t.Run("unknown collection is an error", func(t *testing.T) {
		st := newStore(t)

		if _, err := st.GetAll(ctx, "nope"); err == nil {
			t.Error("GetAll(nope) error = nil, want unknown-collection error")
		}
		if err := st.Put(ctx, "nope", model.Document{"id": "x"}); err == nil {
			t.Error("Put(nope) error = nil, want unknown-collection error")
		}
	})

	t.Run("unknown index is an error", func(t *testing.T) {
		st := newStore(t)

		if _, err := st.GetByIndex(ctx, tracker.CollContacts, "status", "x"); err == nil {
			t.Error("GetByIndex() error = nil, want unknown-index error")
		}
	})
}
