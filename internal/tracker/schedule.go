package tracker

import (
	"context"
	"fmt"
	"strings"

	"jobtrack/internal/model"
)

// ScheduleInterview stores an interview round for an application. The
// application must exist. Outcome defaults to "pending".
func (s *Service) ScheduleInterview(ctx context.Context, iv model.Interview) (*model.Interview, error) {
	if _, err := s.GetApplication(ctx, iv.ApplicationID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	iv.ID = s.idgen.New()
	if iv.Outcome == "" {
		iv.Outcome = model.OutcomePending
	}
	if iv.Round == 0 {
		iv.Round = 1
	}
	iv.CreatedAt = now
	iv.UpdatedAt = now

	doc, err := model.ToDocument(iv)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollInterviews, doc); err != nil {
		return nil, fmt.Errorf("storing interview: %w", err)
	}
	return &iv, nil
}

// SetInterviewOutcome updates an interview's outcome. Comparison with the
// stored outcome is case-insensitive because legacy records carry
// capitalized values; a no-change update is a no-op.
func (s *Service) SetInterviewOutcome(ctx context.Context, id, outcome string) (*model.Interview, error) {
	doc, err := s.store.Get(ctx, CollInterviews, id)
	if err != nil {
		return nil, fmt.Errorf("loading interview: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollInterviews, id)
	}

	var iv model.Interview
	if err := model.FromDocument(doc, &iv); err != nil {
		return nil, err
	}

	if strings.EqualFold(iv.Outcome, outcome) {
		return &iv, nil
	}

	iv.Outcome = strings.ToLower(outcome)
	iv.UpdatedAt = s.clock.Now()

	out, err := model.ToDocument(iv)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollInterviews, out); err != nil {
		return nil, fmt.Errorf("storing interview: %w", err)
	}
	return &iv, nil
}

// ListInterviews returns an application's interviews.
func (s *Service) ListInterviews(ctx context.Context, applicationID string) ([]model.Interview, error) {
	docs, err := s.store.GetByIndex(ctx, CollInterviews, IdxApplicationID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("listing interviews: %w", err)
	}
	out := make([]model.Interview, 0, len(docs))
	for _, doc := range docs {
		var iv model.Interview
		if err := model.FromDocument(doc, &iv); err != nil {
			s.logger.Warn("skipping unreadable interview record", "id", doc.ID(), "error", err)
			continue
		}
		out = append(out, iv)
	}
	return out, nil
}

// AddTask stores a to-do item, optionally tied to an application.
func (s *Service) AddTask(ctx context.Context, t model.Task) (*model.Task, error) {
	if t.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}
	if t.ApplicationID != "" {
		if _, err := s.GetApplication(ctx, t.ApplicationID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	t.ID = s.idgen.New()
	t.Completed = false
	t.CompletedAt = nil
	t.CreatedAt = now
	t.UpdatedAt = now

	doc, err := model.ToDocument(t)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollTasks, doc); err != nil {
		return nil, fmt.Errorf("storing task: %w", err)
	}
	return &t, nil
}

// CompleteTask marks a task done. CompletedAt is set exactly once, on the
// first false→true transition; completing a completed task changes nothing.
func (s *Service) CompleteTask(ctx context.Context, id string) (*model.Task, error) {
	doc, err := s.store.Get(ctx, CollTasks, id)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollTasks, id)
	}

	var t model.Task
	if err := model.FromDocument(doc, &t); err != nil {
		return nil, err
	}
	if t.Completed {
		return &t, nil
	}

	now := s.clock.Now()
	t.Completed = true
	t.CompletedAt = &now
	t.UpdatedAt = now

	out, err := model.ToDocument(t)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollTasks, out); err != nil {
		return nil, fmt.Errorf("storing task: %w", err)
	}
	return &t, nil
}

// ListTasks returns an application's tasks, or every task when
// applicationID is empty.
func (s *Service) ListTasks(ctx context.Context, applicationID string) ([]model.Task, error) {
	var docs []model.Document
	var err error
	if applicationID == "" {
		docs, err = s.store.GetAll(ctx, CollTasks)
	} else {
		docs, err = s.store.GetByIndex(ctx, CollTasks, IdxApplicationID, applicationID)
	}
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	out := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		var t model.Task
		if err := model.FromDocument(doc, &t); err != nil {
			s.logger.Warn("skipping unreadable task record", "id", doc.ID(), "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ListActivities returns an application's activity trail. The trail is
// observational: nothing in the tracker reads it to make decisions.
func (s *Service) ListActivities(ctx context.Context, applicationID string) ([]model.Activity, error) {
	docs, err := s.store.GetByIndex(ctx, CollActivities, IdxApplicationID, applicationID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	out := make([]model.Activity, 0, len(docs))
	for _, doc := range docs {
		var a model.Activity
		if err := model.FromDocument(doc, &a); err != nil {
			s.logger.Warn("skipping unreadable activity record", "id", doc.ID(), "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
