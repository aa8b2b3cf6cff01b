package store

import (
	"context"
	"fmt"
	"sync"

	"jobtrack/internal/model"
	"jobtrack/internal/tracker"
)

func unknownCollection(collection string) error {
	return fmt.Errorf("unknown collection %q", collection)
}

func unknownIndex(collection, index string) error {
	return fmt.Errorf("collection %q has no index %q", collection, index)
}

func noDocumentID(collection string) error {
	return fmt.Errorf("document for %s has no id", collection)
}

// MemoryStore implements tracker.Store with in-process maps. It backs the
// "memory" config type and the tests; durability is not its job, but it
// honors the same contract shape (indexes maintained with every write,
// missing reads as (nil, nil)).
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string]map[string]model.Document
	indexes map[string]map[string]bool
}

// NewMemoryStore creates an empty in-memory store with the shared schema.
func NewMemoryStore() *MemoryStore {
	data := make(map[string]map[string]model.Document)
	for _, spec := range tracker.Schema() {
		data[spec.Name] = make(map[string]model.Document)
	}
	return &MemoryStore{
		data:    data,
		indexes: indexRegistry(),
	}
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.data[collection]
	if !ok {
		return nil, unknownCollection(collection)
	}
	doc, ok := coll[id]
	if !ok {
		return nil, nil // not found
	}
	return model.CloneDocument(doc), nil
}

func (m *MemoryStore) GetAll(ctx context.Context, collection string) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.data[collection]
	if !ok {
		return nil, unknownCollection(collection)
	}
	out := make([]model.Document, 0, len(coll))
	for _, doc := range coll {
		out = append(out, model.CloneDocument(doc))
	}
	return out, nil
}

func (m *MemoryStore) GetByIndex(ctx context.Context, collection, index, value string) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	coll, ok := m.data[collection]
	if !ok {
		return nil, unknownCollection(collection)
	}
	if !m.indexes[collection][index] {
		return nil, unknownIndex(collection, index)
	}
	var out []model.Document
	for _, doc := range coll {
		if doc.String(index) == value {
			out = append(out, model.CloneDocument(doc))
		}
	}
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, collection string, doc model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		return unknownCollection(collection)
	}
	id := doc.ID()
	if id == "" {
		return noDocumentID(collection)
	}
	coll[id] = model.CloneDocument(doc)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		return unknownCollection(collection)
	}
	delete(coll, id)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[collection]; !ok {
		return unknownCollection(collection)
	}
	m.data[collection] = make(map[string]model.Document)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Compile-time check that MemoryStore implements tracker.Store.
var _ tracker.Store = (*MemoryStore)(nil)
