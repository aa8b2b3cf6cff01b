package tracker

import (
	"context"
	"fmt"

	"jobtrack/internal/model"
)

// GetProfile returns the singleton profile. A missing profile resolves to an
// empty one rather than an error, matching first-run behavior.
func (s *Service) GetProfile(ctx context.Context) (*model.Profile, error) {
	doc, err := s.store.Get(ctx, CollProfile, model.SingletonID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if doc == nil {
		return &model.Profile{ID: model.SingletonID}, nil
	}
	var p model.Profile
	if err := model.FromDocument(doc, &p); err != nil {
		return nil, err
	}
	p.ID = model.SingletonID
	return &p, nil
}

// SaveProfile stores the singleton profile.
func (s *Service) SaveProfile(ctx context.Context, p model.Profile) error {
	p.ID = model.SingletonID
	p.UpdatedAt = s.clock.Now()
	doc, err := model.ToDocument(p)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, CollProfile, doc); err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}
	return nil
}

// MergeProfile shallow-merges fields over the stored profile; used by
// merge-mode import.
func (s *Service) MergeProfile(ctx context.Context, overlay model.Document) error {
	doc, err := s.store.Get(ctx, CollProfile, model.SingletonID)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	if doc == nil {
		doc = model.Document{}
	}
	merged := model.CloneDocument(doc)
	for k, v := range overlay {
		if k == "id" {
			continue
		}
		merged[k] = v
	}
	merged["id"] = model.SingletonID
	if err := s.store.Put(ctx, CollProfile, merged); err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}
	return nil
}

// GetSettings returns the singleton settings resolved against the default
// schema, so fields introduced by upgrades appear with their defaults
// without a migration step.
func (s *Service) GetSettings(ctx context.Context) (model.Settings, error) {
	doc, err := s.store.Get(ctx, CollSettings, model.SingletonID)
	if err != nil {
		return model.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return model.ResolveSettings(doc)
}

// SaveSettings stores the singleton settings document.
func (s *Service) SaveSettings(ctx context.Context, settings model.Settings) error {
	settings.ID = model.SingletonID
	doc, err := model.ToDocument(settings)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, CollSettings, doc); err != nil {
		return fmt.Errorf("storing settings: %w", err)
	}
	return nil
}
