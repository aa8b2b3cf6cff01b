package tracker

import (
	"context"

	"jobtrack/internal/model"
)

// Collection names. The set is fixed; backends create missing collections
// and indexes on open (additive only, never destructive).
const (
	CollApplications       = "applications"
	CollContacts           = "contacts"
	CollCommunications     = "communications"
	CollInterviews         = "interviews"
	CollTasks              = "tasks"
	CollActivities         = "activities"
	CollProfile            = "profile"
	CollSettings           = "settings"
	CollMeta               = "meta"
	CollBaseResume         = "baseResume"
	CollGeneratedResumes   = "generatedResumes"
	CollUploadedResumes    = "uploadedResumes"
	CollExtractionFeedback = "extraction_feedback"
	CollModelsMetadata     = "models_metadata"
)

// Secondary index names. An index name doubles as the document field it is
// built over.
const (
	IdxApplicationID = "applicationId"
	IdxContactID     = "contactId"
	IdxStatus        = "status"
	IdxDateApplied   = "dateApplied"
	IdxScheduledDate = "scheduledDate"
)

// CollectionSpec declares one collection and its secondary indexes.
type CollectionSpec struct {
	Name    string
	Indexes []string
}

// Schema returns the full collection registry shared by all store backends.
func Schema() []CollectionSpec {
	return []CollectionSpec{
		{Name: CollApplications, Indexes: []string{IdxStatus, IdxDateApplied}},
		{Name: CollContacts},
		{Name: CollCommunications, Indexes: []string{IdxApplicationID, IdxContactID}},
		{Name: CollInterviews, Indexes: []string{IdxApplicationID, IdxScheduledDate}},
		{Name: CollTasks, Indexes: []string{IdxApplicationID}},
		{Name: CollActivities, Indexes: []string{IdxApplicationID}},
		{Name: CollProfile},
		{Name: CollSettings},
		{Name: CollMeta},
		{Name: CollBaseResume},
		{Name: CollGeneratedResumes, Indexes: []string{IdxApplicationID}},
		{Name: CollUploadedResumes},
		{Name: CollExtractionFeedback},
		{Name: CollModelsMetadata},
	}
}

// Store is the record store: named collections of JSON documents keyed by a
// string id, with declared secondary indexes. Writes resolve only after the
// backing transaction has committed, so a caller that sees Put return nil
// can rely on the write being durable and visible to its own reads.
type Store interface {
	// Get returns the document with the given id, or nil if absent.
	Get(ctx context.Context, collection, id string) (model.Document, error)

	// GetAll returns every document in the collection, in unspecified order.
	GetAll(ctx context.Context, collection string) ([]model.Document, error)

	// GetByIndex returns the documents whose indexed field equals value.
	GetByIndex(ctx context.Context, collection, index, value string) ([]model.Document, error)

	// Put upserts a document by its id. Index rows are maintained in the
	// same transaction as the write.
	Put(ctx context.Context, collection string, doc model.Document) error

	// Delete removes a document and its index rows. Deleting a missing id
	// is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// Clear removes every document in the collection.
	Clear(ctx context.Context, collection string) error

	// Close releases the underlying database.
	Close() error
}
