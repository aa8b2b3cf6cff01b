package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobtrack/internal/model"
	"jobtrack/internal/tracker"
)

func TestService_Contacts(t *testing.T) {
	ctx := context.Background()

	t.Run("add applies defaults", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		c, err := svc.AddContact(ctx, model.Contact{Name: "Sam Recruiter"})
		if err != nil {
			t.Fatalf("AddContact() error = %v", err)
		}
		if c.Type != model.ContactOther {
			t.Errorf("Type = %q, want %q", c.Type, model.ContactOther)
		}
		if c.Source != model.SourceOther {
			t.Errorf("Source = %q, want %q", c.Source, model.SourceOther)
		}
		if c.Tags == nil {
			t.Error("Tags = nil, want empty slice")
		}
		if !c.CreatedAt.Equal(clock.Time) {
			t.Errorf("CreatedAt = %v, want %v", c.CreatedAt, clock.Time)
		}
	})

	t.Run("update cannot overwrite id or createdAt", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		c, err := svc.AddContact(ctx, model.Contact{Name: "Sam Recruiter"})
		if err != nil {
			t.Fatalf("AddContact() error = %v", err)
		}
		created := c.CreatedAt

		clock.Advance(time.Hour)
		updated, err := svc.UpdateContact(ctx, c.ID, model.Document{
			"id":      "hijacked",
			"company": "Globex",
		})
		if err != nil {
			t.Fatalf("UpdateContact() error = %v", err)
		}
		if updated.ID != c.ID {
			t.Errorf("ID = %q, want %q", updated.ID, c.ID)
		}
		if !updated.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt changed: %v -> %v", created, updated.CreatedAt)
		}
		if updated.Company != "Globex" {
			t.Errorf("Company = %q, want %q", updated.Company, "Globex")
		}
		if !updated.UpdatedAt.Equal(clock.Time) {
			t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, clock.Time)
		}
	})

	t.Run("delete leaves the contact's communications in place", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		c, err := svc.AddContact(ctx, model.Contact{Name: "Sam Recruiter"})
		if err != nil {
			t.Fatalf("AddContact() error = %v", err)
		}
		if _, err := svc.LogCommunication(ctx, model.Communication{ContactID: c.ID}); err != nil {
			t.Fatalf("LogCommunication() error = %v", err)
		}

		if err := svc.DeleteContact(ctx, c.ID); err != nil {
			t.Fatalf("DeleteContact() error = %v", err)
		}

		comms, err := svc.ListCommunications(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListCommunications() error = %v", err)
		}
		if len(comms) != 1 {
			t.Errorf("len(communications) = %d, want 1 (contact delete has no cascade)", len(comms))
		}
	})

	t.Run("delete with comms removes both", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		c, err := svc.AddContact(ctx, model.Contact{Name: "Sam Recruiter"})
		if err != nil {
			t.Fatalf("AddContact() error = %v", err)
		}
		for i := 0; i < 3; i++ {
			if _, err := svc.LogCommunication(ctx, model.Communication{ContactID: c.ID}); err != nil {
				t.Fatalf("LogCommunication() error = %v", err)
			}
		}

		if err := svc.DeleteContactWithComms(ctx, c.ID); err != nil {
			t.Fatalf("DeleteContactWithComms() error = %v", err)
		}

		if _, err := svc.GetContact(ctx, c.ID); !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("GetContact() error = %v, want ErrNotFound", err)
		}
		comms, err := svc.ListCommunications(ctx, c.ID)
		if err != nil {
			t.Fatalf("ListCommunications() error = %v", err)
		}
		if len(comms) != 0 {
			t.Errorf("len(communications) = %d, want 0", len(comms))
		}
	})

	t.Run("delete of a missing contact returns ErrNotFound", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if err := svc.DeleteContact(ctx, "nope"); !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_LogCommunication(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		c, err := svc.LogCommunication(ctx, model.Communication{ContactID: "contact-1"})
		if err != nil {
			t.Fatalf("LogCommunication() error = %v", err)
		}
		if c.Type != model.CommOther {
			t.Errorf("Type = %q, want %q", c.Type, model.CommOther)
		}
		if c.Direction != model.DirectionOutbound {
			t.Errorf("Direction = %q, want %q", c.Direction, model.DirectionOutbound)
		}
		if !c.Date.Equal(clock.Time) {
			t.Errorf("Date = %v, want %v", c.Date, clock.Time)
		}
	})

	t.Run("refreshes the application's lastContacted", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		clock.Advance(24 * time.Hour)
		if _, err := svc.LogCommunication(ctx, model.Communication{
			ContactID:     "contact-1",
			ApplicationID: res.Application.ID,
		}); err != nil {
			t.Fatalf("LogCommunication() error = %v", err)
		}

		app, err := svc.GetApplication(ctx, res.Application.ID)
		if err != nil {
			t.Fatalf("GetApplication() error = %v", err)
		}
		if app.LastContacted == nil {
			t.Fatal("LastContacted = nil, want set")
		}
		if !app.LastContacted.Equal(clock.Time) {
			t.Errorf("LastContacted = %v, want %v", app.LastContacted, clock.Time)
		}
	})

	t.Run("a missing application does not fail the log", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		c, err := svc.LogCommunication(ctx, model.Communication{
			ContactID:     "contact-1",
			ApplicationID: "nope",
		})
		if err != nil {
			t.Fatalf("LogCommunication() error = %v (lastContacted refresh is best-effort)", err)
		}
		if c.ID == "" {
			t.Error("ID not assigned")
		}
	})
}
