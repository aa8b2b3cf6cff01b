package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"jobtrack/internal/model"
	"jobtrack/internal/store/migrations"
	"jobtrack/internal/tracker"

	"github.com/mattn/go-sqlite3" // also registers the SQLite driver
)

// SQLiteStore implements tracker.Store over a single SQLite file. Documents
// live in a generic (collection, id, body) table; declared secondary indexes
// are materialized in document_index and maintained inside the same
// transaction as every write, so a committed Put is durable and fully
// indexed or not there at all.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	indexes map[string]map[string]bool
}

// NewSQLiteStore opens (and lazily upgrades) the database at path. Upgrades
// are additive migrations; opening an up-to-date file is a no-op. path can
// be ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, translateErr(fmt.Errorf("upgrading schema: %w", err))
	}

	return &SQLiteStore{
		db:      db,
		path:    path,
		indexes: indexRegistry(),
	}, nil
}

// OpenConnection opens and configures a SQLite connection. Exported for
// tools and tests that need a properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Wait up to 5s for a lock before reporting the database as blocked.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	// Full fsync on commit: Put resolving means the write is on disk.
	if _, err := db.Exec("PRAGMA synchronous = FULL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	return db, nil
}

// indexRegistry builds collection → declared index names from the shared
// schema.
func indexRegistry() map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, spec := range tracker.Schema() {
		m := make(map[string]bool, len(spec.Indexes))
		for _, idx := range spec.Indexes {
			m[idx] = true
		}
		out[spec.Name] = m
	}
	return out
}

func (s *SQLiteStore) checkCollection(collection string) error {
	if _, ok := s.indexes[collection]; !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (model.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?",
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, translateErr(fmt.Errorf("getting %s/%s: %w", collection, id, err))
	}
	return decodeBody(collection, id, body)
}

func (s *SQLiteStore) GetAll(ctx context.Context, collection string) ([]model.Document, error) {
	if err := s.checkCollection(collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, body FROM documents WHERE collection = ?", collection)
	if err != nil {
		return nil, translateErr(fmt.Errorf("listing %s: %w", collection, err))
	}
	defer rows.Close()

	return scanDocuments(collection, rows)
}

func (s *SQLiteStore) GetByIndex(ctx context.Context, collection, index, value string) ([]model.Document, error) {
	if err := s.checkIndex(collection, index); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.body FROM documents d
		WHERE d.collection = ? AND d.id IN (
			SELECT id FROM document_index
			WHERE collection = ? AND idx = ? AND value = ?
		)`, collection, collection, index, value)
	if err != nil {
		return nil, translateErr(fmt.Errorf("querying %s by %s: %w", collection, index, err))
	}
	defer rows.Close()

	return scanDocuments(collection, rows)
}

func (s *SQLiteStore) Put(ctx context.Context, collection string, doc model.Document) error {
	if err := s.checkCollection(collection); err != nil {
		return err
	}
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("document for %s has no id", collection)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(fmt.Errorf("starting transaction: %w", err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body`,
		collection, id, string(body))
	if err != nil {
		return translateErr(fmt.Errorf("storing %s/%s: %w", collection, id, err))
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_index WHERE collection = ? AND id = ?",
		collection, id); err != nil {
		return translateErr(fmt.Errorf("clearing index rows for %s/%s: %w", collection, id, err))
	}
	for idx := range s.indexes[collection] {
		value := doc.String(idx)
		if value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO document_index (collection, idx, value, id) VALUES (?, ?, ?, ?)",
			collection, idx, value, id); err != nil {
			return translateErr(fmt.Errorf("indexing %s/%s: %w", collection, id, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return translateErr(fmt.Errorf("committing %s/%s: %w", collection, id, err))
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	if err := s.checkCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(fmt.Errorf("starting transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", collection, id); err != nil {
		return translateErr(fmt.Errorf("deleting %s/%s: %w", collection, id, err))
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_index WHERE collection = ? AND id = ?", collection, id); err != nil {
		return translateErr(fmt.Errorf("deleting index rows for %s/%s: %w", collection, id, err))
	}

	if err := tx.Commit(); err != nil {
		return translateErr(fmt.Errorf("committing delete of %s/%s: %w", collection, id, err))
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, collection string) error {
	if err := s.checkCollection(collection); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(fmt.Errorf("starting transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ?", collection); err != nil {
		return translateErr(fmt.Errorf("clearing %s: %w", collection, err))
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM document_index WHERE collection = ?", collection); err != nil {
		return translateErr(fmt.Errorf("clearing index rows for %s: %w", collection, err))
	}

	if err := tx.Commit(); err != nil {
		return translateErr(fmt.Errorf("committing clear of %s: %w", collection, err))
	}
	return nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) checkIndex(collection, index string) error {
	if err := s.checkCollection(collection); err != nil {
		return err
	}
	if !s.indexes[collection][index] {
		return fmt.Errorf("collection %q has no index %q", collection, index)
	}
	return nil
}

func scanDocuments(collection string, rows *sql.Rows) ([]model.Document, error) {
	var out []model.Document
	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", collection, err)
		}
		doc, err := decodeBody(collection, id, body)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(fmt.Errorf("iterating %s: %w", collection, err))
	}
	return out, nil
}

func decodeBody(collection, id, body string) (model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// translateErr re-signals the distinguished failure classes: a full disk
// becomes a QuotaError, a database held open elsewhere becomes a
// BlockedError. Everything else propagates as-is.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code {
		case sqlite3.ErrFull:
			return &tracker.QuotaError{Err: err}
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &tracker.BlockedError{Err: err}
		}
	}
	// The driver sometimes surfaces these as plain text.
	msg := err.Error()
	if strings.Contains(msg, "database or disk is full") {
		return &tracker.QuotaError{Err: err}
	}
	if strings.Contains(msg, "database is locked") {
		return &tracker.BlockedError{Err: err}
	}
	return err
}

// Compile-time check that SQLiteStore implements tracker.Store.
var _ tracker.Store = (*SQLiteStore)(nil)
