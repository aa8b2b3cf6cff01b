package tracker

import (
	"context"
	"fmt"
	"strings"

	"jobtrack/internal/model"
)

// Service is the orchestration layer for all lifecycle operations the front
// end calls. Primary writes propagate their errors; activity entries and
// cascade steps are best-effort and only logged.
type Service struct {
	store    Store
	logger   Logger
	clock    Clock
	idgen    IDGenerator
	recorder *Recorder
}

// NewService creates a Service with the provided dependencies.
func NewService(store Store, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
		recorder: NewRecorder(store, logger, clock, idgen),
	}
}

// cascadePolicy declares, per aggregate root, which collections are swept by
// back-reference when a root record is deleted. Contacts are deliberately
// absent: deleting a contact leaves its communications in place, and the
// front-end flow that wants a clean delete removes them first
// (DeleteContactWithComms).
var cascadePolicy = map[string][]string{
	CollApplications: {CollInterviews, CollTasks, CollActivities, CollCommunications},
	CollContacts:     {},
}

// AddResult is the outcome of AddApplication. A duplicate is a business
// condition, not an error: Duplicate is true, Existing holds the match, and
// nothing was written.
type AddResult struct {
	Application *model.Application
	Duplicate   bool
	Existing    *model.Application
}

// AddApplication stores a new application unless one already tracks the
// same posting. Matching is by normalized job URL first, then by normalized
// company+position. Defaults: status "applied", priority "medium",
// deadlineAlert on, tags never nil, one seeded status-history entry.
func (s *Service) AddApplication(ctx context.Context, app model.Application) (*AddResult, error) {
	existing, err := s.findDuplicate(ctx, &app)
	if err != nil {
		return nil, fmt.Errorf("checking for duplicates: %w", err)
	}
	if existing != nil {
		return &AddResult{Duplicate: true, Existing: existing}, nil
	}

	now := s.clock.Now()
	app.ID = s.idgen.New()
	if app.Status == "" {
		app.Status = model.StatusApplied
	}
	if !model.ValidStatus(app.Status) {
		return nil, invalidStatusError(app.Status)
	}
	if app.Priority == "" {
		app.Priority = model.PriorityMedium
	}
	if app.Tags == nil {
		app.Tags = []string{}
	}
	if app.DateApplied.IsZero() {
		app.DateApplied = now
	}
	app.DeadlineAlert = true
	app.StatusHistory = []model.StatusChange{{Status: app.Status, Date: now}}
	app.Meta = model.Meta{CreatedAt: now, UpdatedAt: now, Version: 1}

	doc, err := model.ToDocument(app)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollApplications, doc); err != nil {
		return nil, fmt.Errorf("storing application: %w", err)
	}

	s.recorder.Record(ctx, model.Activity{
		ApplicationID: app.ID,
		Type:          model.ActivityApplicationAdded,
		Title:         fmt.Sprintf("Added %s at %s", app.Position, app.Company),
	})

	s.logger.Info("application added", "id", app.ID, "company", app.Company)
	return &AddResult{Application: &app}, nil
}

// findDuplicate scans every stored application for a match. Linear on
// purpose: at personal-tracker scale (hundreds of records) a scan beats
// maintaining another index.
func (s *Service) findDuplicate(ctx context.Context, app *model.Application) (*model.Application, error) {
	docs, err := s.store.GetAll(ctx, CollApplications)
	if err != nil {
		return nil, err
	}

	wantURL := NormalizeURL(app.JobURL)
	wantCompany := NormalizeText(app.Company)
	wantPosition := NormalizeText(app.Position)

	for _, doc := range docs {
		var other model.Application
		if err := model.FromDocument(doc, &other); err != nil {
			s.logger.Warn("skipping unreadable application record", "id", doc.ID(), "error", err)
			continue
		}
		if wantURL != "" && NormalizeURL(other.JobURL) == wantURL {
			return &other, nil
		}
		if wantCompany != "" && wantPosition != "" &&
			NormalizeText(other.Company) == wantCompany &&
			NormalizeText(other.Position) == wantPosition {
			return &other, nil
		}
	}
	return nil, nil
}

// GetApplication returns one application by id, or ErrNotFound.
func (s *Service) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	doc, err := s.store.Get(ctx, CollApplications, id)
	if err != nil {
		return nil, fmt.Errorf("loading application: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollApplications, id)
	}
	var app model.Application
	if err := model.FromDocument(doc, &app); err != nil {
		return nil, err
	}
	if app.Tags == nil {
		app.Tags = []string{}
	}
	return &app, nil
}

// ListApplications returns every stored application.
func (s *Service) ListApplications(ctx context.Context) ([]model.Application, error) {
	docs, err := s.store.GetAll(ctx, CollApplications)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	apps := make([]model.Application, 0, len(docs))
	for _, doc := range docs {
		var app model.Application
		if err := model.FromDocument(doc, &app); err != nil {
			s.logger.Warn("skipping unreadable application record", "id", doc.ID(), "error", err)
			continue
		}
		if app.Tags == nil {
			app.Tags = []string{}
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// UpdateApplication shallow-merges changes over the stored record. The id
// must exist. A "status" change is validated against the allowed set and
// appends exactly one status-history entry (with the optional "statusNote");
// setting the status it already has appends nothing. "id", "statusHistory"
// and "meta" cannot be overwritten from outside; meta.updatedAt is bumped
// here.
func (s *Service) UpdateApplication(ctx context.Context, id string, changes model.Document) (*model.Application, error) {
	doc, err := s.store.Get(ctx, CollApplications, id)
	if err != nil {
		return nil, fmt.Errorf("loading application: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollApplications, id)
	}

	var cur model.Application
	if err := model.FromDocument(doc, &cur); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	statusChanged := false
	prevStatus := cur.CurrentStatus()

	if raw, ok := changes["status"]; ok {
		newStatus, _ := raw.(string)
		if !model.ValidStatus(newStatus) {
			return nil, invalidStatusError(newStatus)
		}
		if newStatus != prevStatus {
			note, _ := changes["statusNote"].(string)
			cur.StatusHistory = append(cur.StatusHistory, model.StatusChange{
				Status: newStatus,
				Date:   now,
				Notes:  note,
			})
			statusChanged = true
		}
	}

	merged := model.CloneDocument(doc)
	for k, v := range changes {
		switch k {
		case "id", "statusHistory", "statusNote":
			// immutable or managed here
		case "meta":
			if overlay, ok := v.(map[string]any); ok {
				base, _ := merged["meta"].(map[string]any)
				merged["meta"] = map[string]any(model.MergeDocuments(base, overlay))
			}
		default:
			merged[k] = v
		}
	}

	var updated model.Application
	if err := model.FromDocument(merged, &updated); err != nil {
		return nil, fmt.Errorf("applying update: %w", err)
	}
	updated.ID = id
	updated.StatusHistory = cur.StatusHistory
	if updated.Tags == nil {
		updated.Tags = []string{}
	}
	updated.Meta.UpdatedAt = now

	out, err := model.ToDocument(updated)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollApplications, out); err != nil {
		return nil, fmt.Errorf("storing application: %w", err)
	}

	if statusChanged {
		s.recorder.Record(ctx, model.Activity{
			ApplicationID: id,
			Type:          model.ActivityStatusChanged,
			Title:         fmt.Sprintf("Status changed from %s to %s", prevStatus, updated.Status),
			Metadata:      map[string]string{"from": prevStatus, "to": updated.Status},
		})
	}

	return &updated, nil
}

// DeleteApplication removes an application and sweeps its dependents by
// applicationId. Each cascade step is isolated: a failing step is logged
// and the remaining steps still run. The primary delete's error propagates.
func (s *Service) DeleteApplication(ctx context.Context, id string) error {
	doc, err := s.store.Get(ctx, CollApplications, id)
	if err != nil {
		return fmt.Errorf("loading application: %w", err)
	}
	if doc == nil {
		return NotFoundError(CollApplications, id)
	}

	if err := s.store.Delete(ctx, CollApplications, id); err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}

	for _, coll := range cascadePolicy[CollApplications] {
		deps, err := s.store.GetByIndex(ctx, coll, IdxApplicationID, id)
		if err != nil {
			s.logger.Warn("cascade lookup failed", "collection", coll, "applicationId", id, "error", err)
			continue
		}
		for _, dep := range deps {
			if err := s.store.Delete(ctx, coll, dep.ID()); err != nil {
				s.logger.Warn("cascade delete failed", "collection", coll, "id", dep.ID(), "error", err)
			}
		}
	}

	s.logger.Info("application deleted", "id", id)
	return nil
}

func invalidStatusError(status string) error {
	return fmt.Errorf("invalid status %q: allowed values are %s",
		status, strings.Join(model.AllStatuses, ", "))
}
