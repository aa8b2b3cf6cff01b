package tracker_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobtrack/internal/model"
	"jobtrack/internal/testutil"
	"jobtrack/internal/tracker"
)

func newTestService(t *testing.T) (*tracker.Service, tracker.Store, *testutil.FixedClock) {
	t.Helper()
	st := testutil.NewTestStore(t)
	clock := testutil.NewFixedClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))
	svc := tracker.NewService(st, tracker.NewNopLogger(), clock, &testutil.SeqIDGenerator{})
	return svc, st, clock
}

func TestService_AddApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults on a minimal record", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{
			Company:  "Acme",
			Position: "Engineer",
		})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		if res.Duplicate {
			t.Fatal("AddApplication() reported a duplicate for an empty store")
		}

		app := res.Application
		if app.ID == "" {
			t.Error("ID not assigned")
		}
		if app.Status != model.StatusApplied {
			t.Errorf("Status = %q, want %q", app.Status, model.StatusApplied)
		}
		if app.Priority != model.PriorityMedium {
			t.Errorf("Priority = %q, want %q", app.Priority, model.PriorityMedium)
		}
		if !app.DeadlineAlert {
			t.Error("DeadlineAlert = false, want true")
		}
		if app.Tags == nil {
			t.Error("Tags = nil, want empty slice")
		}
		if !app.DateApplied.Equal(clock.Time) {
			t.Errorf("DateApplied = %v, want %v", app.DateApplied, clock.Time)
		}
		if len(app.StatusHistory) != 1 {
			t.Fatalf("len(StatusHistory) = %d, want 1", len(app.StatusHistory))
		}
		if app.StatusHistory[0].Status != model.StatusApplied {
			t.Errorf("seeded history status = %q, want %q", app.StatusHistory[0].Status, model.StatusApplied)
		}
		if app.Meta.Version != 1 {
			t.Errorf("Meta.Version = %d, want 1", app.Meta.Version)
		}
	})

	t.Run("records an activity entry", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		acts, err := svc.ListActivities(ctx, res.Application.ID)
		if err != nil {
			t.Fatalf("ListActivities() error = %v", err)
		}
		if len(acts) != 1 {
			t.Fatalf("len(activities) = %d, want 1", len(acts))
		}
		if acts[0].Type != model.ActivityApplicationAdded {
			t.Errorf("activity type = %q, want %q", acts[0].Type, model.ActivityApplicationAdded)
		}
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.AddApplication(ctx, model.Application{
			Company:  "Acme",
			Position: "Engineer",
			Status:   "ghosting",
		})
		if err == nil {
			t.Fatal("AddApplication() error = nil, want invalid-status error")
		}
		if !strings.Contains(err.Error(), "ghosting") {
			t.Errorf("error %q does not name the rejected status", err)
		}
	})

	t.Run("detects a duplicate by normalized URL and writes nothing", func(t *testing.T) {
		svc, st, _ := newTestService(t)

		first, err := svc.AddApplication(ctx, model.Application{
			Company:  "Acme",
			Position: "Engineer",
			JobURL:   "https://jobs.acme.com/123?utm_source=linkedin",
		})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		res, err := svc.AddApplication(ctx, model.Application{
			Company:  "Totally Different Co",
			Position: "Backend Dev",
			JobURL:   "HTTPS://JOBS.ACME.COM/123#apply",
		})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		if !res.Duplicate {
			t.Fatal("Duplicate = false, want true")
		}
		if res.Existing.ID != first.Application.ID {
			t.Errorf("Existing.ID = %q, want %q", res.Existing.ID, first.Application.ID)
		}

		docs, err := st.GetAll(ctx, tracker.CollApplications)
		if err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
		if len(docs) != 1 {
			t.Errorf("stored applications = %d, want 1 (duplicate must not write)", len(docs))
		}
	})

	t.Run("detects a duplicate by company and position ignoring case and accents", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if _, err := svc.AddApplication(ctx, model.Application{
			Company:  "Café Müller",
			Position: "Staff Engineer",
		}); err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		res, err := svc.AddApplication(ctx, model.Application{
			Company:  "  cafe  muller ",
			Position: "STAFF ENGINEER",
		})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		if !res.Duplicate {
			t.Error("Duplicate = false, want true")
		}
	})

	t.Run("different postings are not duplicates", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if _, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"}); err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Designer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		if res.Duplicate {
			t.Error("Duplicate = true for a different position at the same company")
		}
	})
}

func TestService_UpdateApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("status change appends exactly one history entry", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		clock.Advance(48 * time.Hour)
		updated, err := svc.UpdateApplication(ctx, res.Application.ID, model.Document{
			"status":     model.StatusInterview,
			"statusNote": "phone screen booked",
		})
		if err != nil {
			t.Fatalf("UpdateApplication() error = %v", err)
		}

		if updated.Status != model.StatusInterview {
			t.Errorf("Status = %q, want %q", updated.Status, model.StatusInterview)
		}
		if len(updated.StatusHistory) != 2 {
			t.Fatalf("len(StatusHistory) = %d, want 2", len(updated.StatusHistory))
		}
		last := updated.StatusHistory[1]
		if last.Status != model.StatusInterview {
			t.Errorf("history status = %q, want %q", last.Status, model.StatusInterview)
		}
		if last.Notes != "phone screen booked" {
			t.Errorf("history notes = %q, want %q", last.Notes, "phone screen booked")
		}
		if !last.Date.Equal(clock.Time) {
			t.Errorf("history date = %v, want %v", last.Date, clock.Time)
		}
	})

	t.Run("setting the current status appends nothing", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		updated, err := svc.UpdateApplication(ctx, res.Application.ID, model.Document{
			"status": model.StatusApplied,
		})
		if err != nil {
			t.Fatalf("UpdateApplication() error = %v", err)
		}
		if len(updated.StatusHistory) != 1 {
			t.Errorf("len(StatusHistory) = %d, want 1 (same-status update)", len(updated.StatusHistory))
		}
	})

	t.Run("invalid status leaves the record unchanged", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		_, err = svc.UpdateApplication(ctx, res.Application.ID, model.Document{
			"status":       "bogus",
			"companyNotes": "should not be written",
		})
		if err == nil {
			t.Fatal("UpdateApplication() error = nil, want invalid-status error")
		}

		got, err := svc.GetApplication(ctx, res.Application.ID)
		if err != nil {
			t.Fatalf("GetApplication() error = %v", err)
		}
		if got.CompanyNotes != "" {
			t.Errorf("CompanyNotes = %q, want empty (failed update must not partially apply)", got.CompanyNotes)
		}
		if len(got.StatusHistory) != 1 {
			t.Errorf("len(StatusHistory) = %d, want 1", len(got.StatusHistory))
		}
	})

	t.Run("id and statusHistory cannot be overwritten", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		id := res.Application.ID

		updated, err := svc.UpdateApplication(ctx, id, model.Document{
			"id":            "hijacked",
			"statusHistory": []any{},
			"priority":      model.PriorityHigh,
		})
		if err != nil {
			t.Fatalf("UpdateApplication() error = %v", err)
		}
		if updated.ID != id {
			t.Errorf("ID = %q, want %q", updated.ID, id)
		}
		if len(updated.StatusHistory) != 1 {
			t.Errorf("len(StatusHistory) = %d, want 1", len(updated.StatusHistory))
		}
		if updated.Priority != model.PriorityHigh {
			t.Errorf("Priority = %q, want %q", updated.Priority, model.PriorityHigh)
		}
	})

	t.Run("missing id returns ErrNotFound", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.UpdateApplication(ctx, "nope", model.Document{"priority": "high"})
		if !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("bumps meta.updatedAt and keeps createdAt", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		created := res.Application.Meta.CreatedAt

		clock.Advance(time.Hour)
		updated, err := svc.UpdateApplication(ctx, res.Application.ID, model.Document{"priority": "high"})
		if err != nil {
			t.Fatalf("UpdateApplication() error = %v", err)
		}
		if !updated.Meta.CreatedAt.Equal(created) {
			t.Errorf("Meta.CreatedAt changed: %v -> %v", created, updated.Meta.CreatedAt)
		}
		if !updated.Meta.UpdatedAt.Equal(clock.Time) {
			t.Errorf("Meta.UpdatedAt = %v, want %v", updated.Meta.UpdatedAt, clock.Time)
		}
	})
}

func TestService_DeleteApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("sweeps interviews tasks activities and communications", func(t *testing.T) {
		svc, st, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		id := res.Application.ID

		if _, err := svc.ScheduleInterview(ctx, model.Interview{
			ApplicationID: id,
			ScheduledDate: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("ScheduleInterview() error = %v", err)
		}
		if _, err := svc.AddTask(ctx, model.Task{ApplicationID: id, Title: "prep"}); err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
		contact, err := svc.AddContact(ctx, model.Contact{Name: "Sam Recruiter"})
		if err != nil {
			t.Fatalf("AddContact() error = %v", err)
		}
		if _, err := svc.LogCommunication(ctx, model.Communication{
			ContactID:     contact.ID,
			ApplicationID: id,
		}); err != nil {
			t.Fatalf("LogCommunication() error = %v", err)
		}

		if err := svc.DeleteApplication(ctx, id); err != nil {
			t.Fatalf("DeleteApplication() error = %v", err)
		}

		if _, err := svc.GetApplication(ctx, id); !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("GetApplication() error = %v, want ErrNotFound", err)
		}
		for _, coll := range []string{
			tracker.CollInterviews,
			tracker.CollTasks,
			tracker.CollActivities,
			tracker.CollCommunications,
		} {
			deps, err := st.GetByIndex(ctx, coll, tracker.IdxApplicationID, id)
			if err != nil {
				t.Fatalf("GetByIndex(%s) error = %v", coll, err)
			}
			if len(deps) != 0 {
				t.Errorf("%s: %d record(s) survived the cascade", coll, len(deps))
			}
		}

		// The contact is not a dependent of the application.
		if _, err := svc.GetContact(ctx, contact.ID); err != nil {
			t.Errorf("GetContact() error = %v, want contact to survive", err)
		}
	})

	t.Run("missing id returns ErrNotFound", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if err := svc.DeleteApplication(ctx, "nope"); !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("leaves unrelated records alone", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		a, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		b, err := svc.AddApplication(ctx, model.Application{Company: "Globex", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		if _, err := svc.AddTask(ctx, model.Task{ApplicationID: b.Application.ID, Title: "follow up"}); err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}

		if err := svc.DeleteApplication(ctx, a.Application.ID); err != nil {
			t.Fatalf("DeleteApplication() error = %v", err)
		}

		tasks, err := svc.ListTasks(ctx, b.Application.ID)
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Errorf("len(tasks) = %d, want 1", len(tasks))
		}
	})
}

func TestService_ActivityIsBestEffort(t *testing.T) {
	ctx := context.Background()

	// A store that fails activity writes but nothing else.
	st := testutil.NewTestStore(t)
	failing := &activityFailingStore{Store: st}
	logger := testutil.NewCaptureLogger()
	svc := tracker.NewService(failing, logger,
		testutil.NewFixedClock(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)),
		&testutil.SeqIDGenerator{})

	res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
	if err != nil {
		t.Fatalf("AddApplication() error = %v (activity failure must not propagate)", err)
	}
	if res.Application == nil {
		t.Fatal("Application = nil")
	}

	warned := false
	for _, msg := range logger.Warnings() {
		if msg == "activity entry dropped" {
			warned = true
		}
	}
	if !warned {
		t.Error("dropped activity entry was not logged")
	}
}

// activityFailingStore rejects writes to the activities collection.
type activityFailingStore struct {
	tracker.Store
}

func (s *activityFailingStore) Put(ctx context.Context, collection string, doc model.Document) error {
	if collection == tracker.CollActivities {
		return errors.New("synthetic activity failure")
	}
	return s.Store.Put(ctx, collection, doc)
}
