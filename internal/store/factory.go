// Package store provides the record store backends: a generic, indexed
// document collection over an embedded database.
package store

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"jobtrack/internal/config"
	"jobtrack/internal/tracker"
)

// NewStoreFromConfig creates a Store implementation based on the store
// config type.
func NewStoreFromConfig(cfg config.StoreConfig, logger *slog.Logger) (tracker.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "jobtrack.db"))
	case "badger":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for badger store")
		}
		return NewBadgerStore(filepath.Join(cfg.DataDir, "badger"), logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
