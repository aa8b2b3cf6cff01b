package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobtrack/internal/model"
)

// LegacySource is the flat key-value store the one-time migration reads
// from. Implementations must honor ctx cancellation; the migration wraps
// every call in a timeout so a broken source can never hang the launch.
type LegacySource interface {
	// Get returns the raw value for a key, or nil when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Clear wipes the legacy store after a fully successful migration.
	Clear(ctx context.Context) error
}

// Legacy store keys.
const (
	LegacyKeyProfile      = "profile"
	LegacyKeyApplications = "applications"
	LegacyKeySettings     = "settings"
)

// migrationMetaID keys the meta document that marks the migration done.
const migrationMetaID = "migration"

// MigrationReport summarizes a legacy migration run.
type MigrationReport struct {
	AlreadyDone  bool
	Applications int
	Failed       int
	FailedIDs    []string
	Profile      bool
	Settings     bool
}

// MigrateLegacy imports the legacy flat store once. Applications migrate
// individually: a bad record is recorded and skipped, never aborting the
// run. The legacy store is cleared only when zero records failed, so failed
// records stay available for manual inspection; the meta flag is written
// either way, so the procedure never retries forever over one permanently
// bad record.
func (s *Service) MigrateLegacy(ctx context.Context, src LegacySource, timeout time.Duration) (*MigrationReport, error) {
	flag, err := s.store.Get(ctx, CollMeta, migrationMetaID)
	if err != nil {
		return nil, fmt.Errorf("checking migration flag: %w", err)
	}
	if flag != nil {
		return &MigrationReport{AlreadyDone: true}, nil
	}

	report := &MigrationReport{}

	if raw, err := getWithTimeout(ctx, src, LegacyKeyProfile, timeout); err != nil {
		s.logger.Warn("legacy profile unreadable", "error", err)
	} else if raw != nil {
		var doc model.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.logger.Warn("legacy profile malformed", "error", err)
		} else {
			doc["id"] = model.SingletonID
			if err := s.store.Put(ctx, CollProfile, doc); err != nil {
				return nil, fmt.Errorf("migrating profile: %w", err)
			}
			report.Profile = true
		}
	}

	if raw, err := getWithTimeout(ctx, src, LegacyKeyApplications, timeout); err != nil {
		s.logger.Warn("legacy applications unreadable", "error", err)
	} else if raw != nil {
		var docs []model.Document
		if err := json.Unmarshal(raw, &docs); err != nil {
			s.logger.Warn("legacy applications malformed", "error", err)
		} else {
			for i, doc := range docs {
				id := doc.ID()
				if id == "" {
					id = fmt.Sprintf("record %d", i)
				}
				if err := s.store.Put(ctx, CollApplications, normalizeImported(doc)); err != nil {
					s.logger.Warn("legacy application not migrated", "id", id, "error", err)
					report.Failed++
					report.FailedIDs = append(report.FailedIDs, id)
					continue
				}
				report.Applications++
			}
		}
	}

	if raw, err := getWithTimeout(ctx, src, LegacyKeySettings, timeout); err != nil {
		s.logger.Warn("legacy settings unreadable", "error", err)
	} else if raw != nil {
		var doc model.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.logger.Warn("legacy settings malformed", "error", err)
		} else {
			doc["id"] = model.SingletonID
			if err := s.store.Put(ctx, CollSettings, doc); err != nil {
				return nil, fmt.Errorf("migrating settings: %w", err)
			}
			report.Settings = true
		}
	}

	if report.Failed == 0 {
		if err := clearWithTimeout(ctx, src, timeout); err != nil {
			s.logger.Warn("legacy store not cleared", "error", err)
		}
	} else {
		s.logger.Warn("legacy store left intact for inspection", "failed", report.Failed)
	}

	flagDoc := model.Document{
		"id":         migrationMetaID,
		"migratedAt": s.clock.Now().Format(time.RFC3339),
		"migrated":   float64(report.Applications),
		"failed":     float64(report.Failed),
	}
	if len(report.FailedIDs) > 0 {
		failed := make([]any, len(report.FailedIDs))
		for i, id := range report.FailedIDs {
			failed[i] = id
		}
		flagDoc["failedIds"] = failed
	}
	if err := s.store.Put(ctx, CollMeta, flagDoc); err != nil {
		return nil, fmt.Errorf("marking migration complete: %w", err)
	}

	s.logger.Info("legacy migration complete",
		"applications", report.Applications, "failed", report.Failed)
	return report, nil
}

// getWithTimeout guards a legacy read: the result is taken from the source
// or the deadline, whichever comes first.
func getWithTimeout(ctx context.Context, src LegacySource, key string, timeout time.Duration) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		raw json.RawMessage
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := src.Get(ctx, key)
		ch <- result{raw, err}
	}()

	select {
	case r := <-ch:
		return r.raw, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("legacy store read %q: %w", key, ctx.Err())
	}
}

func clearWithTimeout(ctx context.Context, src LegacySource, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan error, 1)
	go func() { ch <- src.Clear(ctx) }()

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return fmt.Errorf("legacy store clear: %w", ctx.Err())
	}
}
