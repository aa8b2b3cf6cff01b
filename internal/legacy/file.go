// Package legacy implements the flat key-value store the one-time migration
// reads from: a single JSON object file left behind by the previous storage
// backend.
package legacy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads the legacy flat store from a JSON file of the form
// {"profile": {...}, "applications": [...], "settings": {...}}.
// A missing file means there is nothing to migrate: every Get returns nil.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Get returns the raw value for a key, or nil when the file or key is
// absent.
func (f *FileSource) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading legacy store: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing legacy store: %w", err)
	}
	return entries[key], nil
}

// Clear removes the legacy file. Called only after a migration with zero
// failed records.
func (f *FileSource) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing legacy store: %w", err)
	}
	return nil
}
