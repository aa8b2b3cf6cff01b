package tracker

import (
	"context"
	"fmt"
	"time"

	"jobtrack/internal/model"
)

// ExportVersion is the envelope version written by ExportAll and accepted by
// Import.
const ExportVersion = 1

// Envelope is the export file format: one JSON document holding the profile,
// every application, and the settings.
type Envelope struct {
	Version      int              `json:"version"`
	ExportedAt   time.Time        `json:"exportedAt"`
	Profile      model.Document   `json:"profile"`
	Applications []model.Document `json:"applications"`
	Settings     model.Document   `json:"settings"`
}

// ImportReport summarizes what an import did.
type ImportReport struct {
	Added   int
	Skipped int
	Failed  int
}

// ExportAll snapshots the profile, applications and settings into one
// versioned envelope.
func (s *Service) ExportAll(ctx context.Context) (*Envelope, error) {
	profile, err := s.store.Get(ctx, CollProfile, model.SingletonID)
	if err != nil {
		return nil, fmt.Errorf("exporting profile: %w", err)
	}
	if profile == nil {
		profile = model.Document{"id": model.SingletonID}
	}

	apps, err := s.store.GetAll(ctx, CollApplications)
	if err != nil {
		return nil, fmt.Errorf("exporting applications: %w", err)
	}

	settings, err := s.store.Get(ctx, CollSettings, model.SingletonID)
	if err != nil {
		return nil, fmt.Errorf("exporting settings: %w", err)
	}
	if settings == nil {
		settings = model.Document{"id": model.SingletonID}
	}

	return &Envelope{
		Version:      ExportVersion,
		ExportedAt:   s.clock.Now(),
		Profile:      profile,
		Applications: apps,
		Settings:     settings,
	}, nil
}

// ValidateImport checks an envelope's structure and returns human-readable
// problems. Validation is structural only: the envelope must be an object
// with a list of applications, and every application needs an id plus a
// company or position. Any problem rejects the whole import.
func ValidateImport(env *Envelope) []string {
	var problems []string
	if env == nil {
		return []string{"import data is not an object"}
	}
	if env.Version > ExportVersion {
		problems = append(problems, fmt.Sprintf("unsupported export version %d (latest is %d)", env.Version, ExportVersion))
	}
	for i, doc := range env.Applications {
		if doc == nil {
			problems = append(problems, fmt.Sprintf("application %d is not an object", i))
			continue
		}
		if doc.ID() == "" {
			problems = append(problems, fmt.Sprintf("application %d has no id", i))
		}
		if doc.String("company") == "" && doc.String("position") == "" {
			problems = append(problems, fmt.Sprintf("application %d has neither company nor position", i))
		}
	}
	return problems
}

// Import loads an envelope. In merge mode only applications with unknown ids
// are added and the profile is shallow-merged; nothing is updated in place.
// In replace mode the application collection is cleared first, then every
// record is inserted, continuing past per-record failures; the report
// carries the failure count.
func (s *Service) Import(ctx context.Context, env *Envelope, merge bool) (*ImportReport, error) {
	if problems := ValidateImport(env); len(problems) > 0 {
		return nil, fmt.Errorf("import rejected: %s", problems[0])
	}

	report := &ImportReport{}

	if merge {
		for _, doc := range env.Applications {
			existing, err := s.store.Get(ctx, CollApplications, doc.ID())
			if err != nil {
				return nil, fmt.Errorf("checking application %s: %w", doc.ID(), err)
			}
			if existing != nil {
				report.Skipped++
				continue
			}
			if err := s.store.Put(ctx, CollApplications, normalizeImported(doc)); err != nil {
				return nil, fmt.Errorf("importing application %s: %w", doc.ID(), err)
			}
			report.Added++
		}
		if len(env.Profile) > 0 {
			if err := s.MergeProfile(ctx, env.Profile); err != nil {
				return nil, err
			}
		}
		return report, nil
	}

	// Replace mode.
	if err := s.store.Clear(ctx, CollApplications); err != nil {
		return nil, fmt.Errorf("clearing applications: %w", err)
	}
	for _, doc := range env.Applications {
		if err := s.store.Put(ctx, CollApplications, normalizeImported(doc)); err != nil {
			s.logger.Warn("imported application not stored", "id", doc.ID(), "error", err)
			report.Failed++
			continue
		}
		report.Added++
	}
	if len(env.Profile) > 0 {
		profile := model.CloneDocument(env.Profile)
		profile["id"] = model.SingletonID
		if err := s.store.Put(ctx, CollProfile, profile); err != nil {
			return nil, fmt.Errorf("importing profile: %w", err)
		}
	}
	if len(env.Settings) > 0 {
		settings := model.CloneDocument(env.Settings)
		settings["id"] = model.SingletonID
		if err := s.store.Put(ctx, CollSettings, settings); err != nil {
			return nil, fmt.Errorf("importing settings: %w", err)
		}
	}
	return report, nil
}

// normalizeImported repairs the shapes older exports are missing: tags as an
// array, a seeded status history, and epoch-millisecond timestamps converted
// to RFC 3339.
func normalizeImported(doc model.Document) model.Document {
	out := model.CloneDocument(doc)
	if _, ok := out["tags"].([]any); !ok {
		out["tags"] = []any{}
	}
	for _, field := range []string{"dateApplied", "deadline", "lastContacted"} {
		if ms, ok := out[field].(float64); ok {
			out[field] = time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
		}
	}
	if _, ok := out["statusHistory"].([]any); !ok {
		status := out.String("status")
		if status == "" {
			status = model.StatusApplied
		}
		seed := map[string]any{"status": status}
		if date := out.String("dateApplied"); date != "" {
			seed["date"] = date
		}
		out["statusHistory"] = []any{seed}
	}
	return out
}
