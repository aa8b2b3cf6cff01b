package tracker

import (
	"context"
	"fmt"

	"jobtrack/internal/model"
)

// SaveBaseResume upserts a base resume. New resumes get an id and createdAt.
func (s *Service) SaveBaseResume(ctx context.Context, r model.BaseResume) (*model.BaseResume, error) {
	now := s.clock.Now()
	if r.ID == "" {
		r.ID = s.idgen.New()
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	doc, err := model.ToDocument(r)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollBaseResume, doc); err != nil {
		return nil, fmt.Errorf("storing base resume: %w", err)
	}
	return &r, nil
}

// GetBaseResume returns one base resume by id, or ErrNotFound.
func (s *Service) GetBaseResume(ctx context.Context, id string) (*model.BaseResume, error) {
	doc, err := s.store.Get(ctx, CollBaseResume, id)
	if err != nil {
		return nil, fmt.Errorf("loading base resume: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollBaseResume, id)
	}
	var r model.BaseResume
	if err := model.FromDocument(doc, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GenerateResume creates a tailored resume for a job. The base resume is
// snapshotted in full, so later edits to the base never change what this
// record says was sent.
func (s *Service) GenerateResume(ctx context.Context, baseID string, tailoring model.Tailoring, jobDescription, applicationID string) (*model.GeneratedResume, error) {
	base, err := s.GetBaseResume(ctx, baseID)
	if err != nil {
		return nil, err
	}
	if applicationID != "" {
		if _, err := s.GetApplication(ctx, applicationID); err != nil {
			return nil, err
		}
	}

	gen := model.GeneratedResume{
		ID:             s.idgen.New(),
		BaseResumeID:   baseID,
		ApplicationID:  applicationID,
		Snapshot:       *base,
		JobDescription: jobDescription,
		Tailoring:      tailoring,
		CreatedAt:      s.clock.Now(),
	}

	doc, err := model.ToDocument(gen)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollGeneratedResumes, doc); err != nil {
		return nil, fmt.Errorf("storing generated resume: %w", err)
	}
	return &gen, nil
}

// SaveUploadedResume stores an uploaded PDF (base64 payload).
func (s *Service) SaveUploadedResume(ctx context.Context, r model.UploadedResume) (*model.UploadedResume, error) {
	r.ID = s.idgen.New()
	r.UploadedAt = s.clock.Now()

	doc, err := model.ToDocument(r)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollUploadedResumes, doc); err != nil {
		return nil, fmt.Errorf("storing uploaded resume: %w", err)
	}
	return &r, nil
}

// ListUploadedResumes returns uploaded-resume metadata with payloads
// stripped. Payloads can run to megabytes; listings never carry them.
func (s *Service) ListUploadedResumes(ctx context.Context) ([]model.UploadedResume, error) {
	docs, err := s.store.GetAll(ctx, CollUploadedResumes)
	if err != nil {
		return nil, fmt.Errorf("listing uploaded resumes: %w", err)
	}
	out := make([]model.UploadedResume, 0, len(docs))
	for _, doc := range docs {
		var r model.UploadedResume
		if err := model.FromDocument(doc, &r); err != nil {
			s.logger.Warn("skipping unreadable uploaded resume", "id", doc.ID(), "error", err)
			continue
		}
		r.PayloadB64 = ""
		out = append(out, r)
	}
	return out, nil
}

// GetUploadedResume returns one uploaded resume including its payload.
func (s *Service) GetUploadedResume(ctx context.Context, id string) (*model.UploadedResume, error) {
	doc, err := s.store.Get(ctx, CollUploadedResumes, id)
	if err != nil {
		return nil, fmt.Errorf("loading uploaded resume: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollUploadedResumes, id)
	}
	var r model.UploadedResume
	if err := model.FromDocument(doc, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// RecordExtractionFeedback stores a user correction to an extracted field.
func (s *Service) RecordExtractionFeedback(ctx context.Context, fb model.ExtractionFeedback) error {
	fb.ID = s.idgen.New()
	fb.CreatedAt = s.clock.Now()

	doc, err := model.ToDocument(fb)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, CollExtractionFeedback, doc); err != nil {
		return fmt.Errorf("storing extraction feedback: %w", err)
	}
	return nil
}
