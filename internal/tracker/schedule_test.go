package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobtrack/internal/model"
	"jobtrack/internal/tracker"
)

func TestService_Interviews(t *testing.T) {
	ctx := context.Background()

	t.Run("schedule requires an existing application", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.ScheduleInterview(ctx, model.Interview{
			ApplicationID: "nope",
			ScheduledDate: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
		})
		if !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("schedule defaults outcome to pending and round to 1", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}

		iv, err := svc.ScheduleInterview(ctx, model.Interview{
			ApplicationID: res.Application.ID,
			ScheduledDate: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("ScheduleInterview() error = %v", err)
		}
		if iv.Outcome != model.OutcomePending {
			t.Errorf("Outcome = %q, want %q", iv.Outcome, model.OutcomePending)
		}
		if iv.Round != 1 {
			t.Errorf("Round = %d, want 1", iv.Round)
		}
	})

	t.Run("outcome comparison is case-insensitive", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		iv, err := svc.ScheduleInterview(ctx, model.Interview{
			ApplicationID: res.Application.ID,
			ScheduledDate: time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("ScheduleInterview() error = %v", err)
		}
		firstUpdated := iv.UpdatedAt

		clock.Advance(time.Hour)
		same, err := svc.SetInterviewOutcome(ctx, iv.ID, "Pending")
		if err != nil {
			t.Fatalf("SetInterviewOutcome() error = %v", err)
		}
		if !same.UpdatedAt.Equal(firstUpdated) {
			t.Error("no-change outcome update touched the record")
		}

		changed, err := svc.SetInterviewOutcome(ctx, iv.ID, "PASSED")
		if err != nil {
			t.Fatalf("SetInterviewOutcome() error = %v", err)
		}
		if changed.Outcome != "passed" {
			t.Errorf("Outcome = %q, want %q (stored lowercase)", changed.Outcome, "passed")
		}
	})
}

func TestService_Tasks(t *testing.T) {
	ctx := context.Background()

	t.Run("add requires a title", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		if _, err := svc.AddTask(ctx, model.Task{}); err == nil {
			t.Error("AddTask() error = nil, want title-required error")
		}
	})

	t.Run("add with an application requires it to exist", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.AddTask(ctx, model.Task{ApplicationID: "nope", Title: "prep"})
		if !errors.Is(err, tracker.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("completedAt is set once", func(t *testing.T) {
		svc, _, clock := newTestService(t)

		task, err := svc.AddTask(ctx, model.Task{Title: "send follow-up"})
		if err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
		if task.Completed || task.CompletedAt != nil {
			t.Fatal("new task already completed")
		}

		clock.Advance(time.Hour)
		done, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}
		if !done.Completed {
			t.Error("Completed = false, want true")
		}
		if done.CompletedAt == nil || !done.CompletedAt.Equal(clock.Time) {
			t.Errorf("CompletedAt = %v, want %v", done.CompletedAt, clock.Time)
		}
		first := *done.CompletedAt

		clock.Advance(24 * time.Hour)
		again, err := svc.CompleteTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("CompleteTask() error = %v", err)
		}
		if !again.CompletedAt.Equal(first) {
			t.Errorf("CompletedAt moved on repeat completion: %v -> %v", first, *again.CompletedAt)
		}
	})

	t.Run("list filters by application", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.AddApplication(ctx, model.Application{Company: "Acme", Position: "Engineer"})
		if err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
		if _, err := svc.AddTask(ctx, model.Task{ApplicationID: res.Application.ID, Title: "prep"}); err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}
		if _, err := svc.AddTask(ctx, model.Task{Title: "update portfolio"}); err != nil {
			t.Fatalf("AddTask() error = %v", err)
		}

		all, err := svc.ListTasks(ctx, "")
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(all) != 2 {
			t.Errorf("len(all tasks) = %d, want 2", len(all))
		}

		scoped, err := svc.ListTasks(ctx, res.Application.ID)
		if err != nil {
			t.Fatalf("ListTasks() error = %v", err)
		}
		if len(scoped) != 1 {
			t.Errorf("len(scoped tasks) = %d, want 1", len(scoped))
		}
	})
}
