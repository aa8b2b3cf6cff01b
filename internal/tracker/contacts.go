package tracker

import (
	"context"
	"fmt"
	"time"

	"jobtrack/internal/model"
)

// AddContact stores a new contact. Defaults: type and source "other", tags
// never nil.
func (s *Service) AddContact(ctx context.Context, c model.Contact) (*model.Contact, error) {
	now := s.clock.Now()
	c.ID = s.idgen.New()
	if c.Type == "" {
		c.Type = model.ContactOther
	}
	if c.Source == "" {
		c.Source = model.SourceOther
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now

	doc, err := model.ToDocument(c)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollContacts, doc); err != nil {
		return nil, fmt.Errorf("storing contact: %w", err)
	}
	return &c, nil
}

// GetContact returns one contact by id, or ErrNotFound.
func (s *Service) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	doc, err := s.store.Get(ctx, CollContacts, id)
	if err != nil {
		return nil, fmt.Errorf("loading contact: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollContacts, id)
	}
	var c model.Contact
	if err := model.FromDocument(doc, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListContacts returns every stored contact.
func (s *Service) ListContacts(ctx context.Context) ([]model.Contact, error) {
	docs, err := s.store.GetAll(ctx, CollContacts)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	out := make([]model.Contact, 0, len(docs))
	for _, doc := range docs {
		var c model.Contact
		if err := model.FromDocument(doc, &c); err != nil {
			s.logger.Warn("skipping unreadable contact record", "id", doc.ID(), "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// UpdateContact shallow-merges changes over the stored contact. The id must
// exist; "id" and "createdAt" cannot be overwritten.
func (s *Service) UpdateContact(ctx context.Context, id string, changes model.Document) (*model.Contact, error) {
	doc, err := s.store.Get(ctx, CollContacts, id)
	if err != nil {
		return nil, fmt.Errorf("loading contact: %w", err)
	}
	if doc == nil {
		return nil, NotFoundError(CollContacts, id)
	}

	merged := model.CloneDocument(doc)
	for k, v := range changes {
		if k == "id" || k == "createdAt" {
			continue
		}
		merged[k] = v
	}

	var c model.Contact
	if err := model.FromDocument(merged, &c); err != nil {
		return nil, fmt.Errorf("applying update: %w", err)
	}
	c.ID = id
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.UpdatedAt = s.clock.Now()

	out, err := model.ToDocument(c)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollContacts, out); err != nil {
		return nil, fmt.Errorf("storing contact: %w", err)
	}
	return &c, nil
}

// DeleteContact removes a contact. It does NOT touch the contact's
// communications — contacts have no cascade (see cascadePolicy). Front ends
// that want a clean delete call DeleteContactWithComms.
func (s *Service) DeleteContact(ctx context.Context, id string) error {
	doc, err := s.store.Get(ctx, CollContacts, id)
	if err != nil {
		return fmt.Errorf("loading contact: %w", err)
	}
	if doc == nil {
		return NotFoundError(CollContacts, id)
	}
	if err := s.store.Delete(ctx, CollContacts, id); err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	return nil
}

// DeleteContactWithComms removes a contact's communications first, then the
// contact. The communication deletes are primary here, not best-effort: a
// failure aborts before the contact is touched.
func (s *Service) DeleteContactWithComms(ctx context.Context, id string) error {
	comms, err := s.store.GetByIndex(ctx, CollCommunications, IdxContactID, id)
	if err != nil {
		return fmt.Errorf("listing communications for contact: %w", err)
	}
	for _, doc := range comms {
		if err := s.store.Delete(ctx, CollCommunications, doc.ID()); err != nil {
			return fmt.Errorf("deleting communication %s: %w", doc.ID(), err)
		}
	}
	return s.DeleteContact(ctx, id)
}

// LogCommunication stores a touchpoint with a contact. When the
// communication is tied to an application, the application's lastContacted
// is refreshed as a best-effort follow-on write.
func (s *Service) LogCommunication(ctx context.Context, c model.Communication) (*model.Communication, error) {
	now := s.clock.Now()
	c.ID = s.idgen.New()
	if c.Type == "" {
		c.Type = model.CommOther
	}
	if c.Direction == "" {
		c.Direction = model.DirectionOutbound
	}
	if c.Date.IsZero() {
		c.Date = now
	}
	c.CreatedAt = now

	doc, err := model.ToDocument(c)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, CollCommunications, doc); err != nil {
		return nil, fmt.Errorf("storing communication: %w", err)
	}

	if c.ApplicationID != "" {
		if _, err := s.UpdateApplication(ctx, c.ApplicationID, model.Document{
			"lastContacted": c.Date.Format(time.RFC3339),
		}); err != nil {
			s.logger.Warn("lastContacted not refreshed", "applicationId", c.ApplicationID, "error", err)
		}
	}

	return &c, nil
}

// ListCommunications returns a contact's communications.
func (s *Service) ListCommunications(ctx context.Context, contactID string) ([]model.Communication, error) {
	docs, err := s.store.GetByIndex(ctx, CollCommunications, IdxContactID, contactID)
	if err != nil {
		return nil, fmt.Errorf("listing communications: %w", err)
	}
	out := make([]model.Communication, 0, len(docs))
	for _, doc := range docs {
		var c model.Communication
		if err := model.FromDocument(doc, &c); err != nil {
			s.logger.Warn("skipping unreadable communication record", "id", doc.ID(), "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
