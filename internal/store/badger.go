package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"jobtrack/internal/model"
	"jobtrack/internal/tracker"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore implements tracker.Store over BadgerDB, a pure-Go embedded
// key-value store. Documents live under c/<collection>/<id>; declared
// secondary indexes are materialized as empty-valued keys under
// i/<collection>/<index>/<value>/<id>, written in the same badger
// transaction as the document. SyncWrites is on, so a committed Put is on
// disk.
type BadgerStore struct {
	db      *badger.DB
	indexes map[string]map[string]bool
}

// NewBadgerStore opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database.
func NewBadgerStore(dir string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.SyncWrites = true
	opts.NumVersionsToKeep = 1
	if dir == "" {
		opts = opts.WithInMemory(true)
		opts.SyncWrites = false
	}
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, translateBadgerErr(fmt.Errorf("opening badger database: %w", err))
	}

	return &BadgerStore{
		db:      db,
		indexes: indexRegistry(),
	}, nil
}

func docKey(collection, id string) []byte {
	return []byte("c/" + collection + "/" + id)
}

func indexKey(collection, index, value, id string) []byte {
	return []byte("i/" + collection + "/" + index + "/" + value + "/" + id)
}

func (b *BadgerStore) checkCollection(collection string) error {
	if _, ok := b.indexes[collection]; !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	return nil
}

func (b *BadgerStore) Get(ctx context.Context, collection, id string) (model.Document, error) {
	if err := b.checkCollection(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc model.Document
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(collection, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil // not found
	}
	if err != nil {
		return nil, translateBadgerErr(fmt.Errorf("getting %s/%s: %w", collection, id, err))
	}
	return doc, nil
}

func (b *BadgerStore) GetAll(ctx context.Context, collection string) ([]model.Document, error) {
	if err := b.checkCollection(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte("c/" + collection + "/")
	var out []model.Document
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			var doc model.Document
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				return err
			}
			out = append(out, doc)
		}
		return nil
	})
	if err != nil {
		return nil, translateBadgerErr(fmt.Errorf("listing %s: %w", collection, err))
	}
	return out, nil
}

func (b *BadgerStore) GetByIndex(ctx context.Context, collection, index, value string) ([]model.Document, error) {
	if err := b.checkCollection(collection); err != nil {
		return nil, err
	}
	if !b.indexes[collection][index] {
		return nil, fmt.Errorf("collection %q has no index %q", collection, index)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte("i/" + collection + "/" + index + "/" + value + "/")
	var out []model.Document
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			id := string(bytes.TrimPrefix(it.Item().Key(), prefix))
			item, err := txn.Get(docKey(collection, id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue // stale index row
			}
			if err != nil {
				return err
			}
			var doc model.Document
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return err
			}
			out = append(out, doc)
		}
		return nil
	})
	if err != nil {
		return nil, translateBadgerErr(fmt.Errorf("querying %s by %s: %w", collection, index, err))
	}
	return out, nil
}

func (b *BadgerStore) Put(ctx context.Context, collection string, doc model.Document) error {
	if err := b.checkCollection(collection); err != nil {
		return err
	}
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("document for %s has no id", collection)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		if err := b.dropIndexRows(txn, collection, id); err != nil {
			return err
		}
		if err := txn.Set(docKey(collection, id), body); err != nil {
			return err
		}
		for idx := range b.indexes[collection] {
			value := doc.String(idx)
			if value == "" {
				continue
			}
			if err := txn.Set(indexKey(collection, idx, value, id), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateBadgerErr(fmt.Errorf("storing %s/%s: %w", collection, id, err))
	}
	return nil
}

func (b *BadgerStore) Delete(ctx context.Context, collection, id string) error {
	if err := b.checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		if err := b.dropIndexRows(txn, collection, id); err != nil {
			return err
		}
		return txn.Delete(docKey(collection, id))
	})
	if err != nil {
		return translateBadgerErr(fmt.Errorf("deleting %s/%s: %w", collection, id, err))
	}
	return nil
}

func (b *BadgerStore) Clear(ctx context.Context, collection string) error {
	if err := b.checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Collect ids first; deleting while iterating the same prefix is
	// undefined.
	docs, err := b.GetAll(ctx, collection)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := b.Delete(ctx, collection, doc.ID()); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the badger database.
func (b *BadgerStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// dropIndexRows removes every index row pointing at the document, across all
// of the collection's declared indexes.
func (b *BadgerStore) dropIndexRows(txn *badger.Txn, collection, id string) error {
	suffix := []byte("/" + id)
	for idx := range b.indexes[collection] {
		prefix := []byte("i/" + collection + "/" + idx + "/")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if bytes.HasSuffix(key, suffix) {
				stale = append(stale, key)
			}
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
	}
	return nil
}

// translateBadgerErr re-signals storage exhaustion as a QuotaError.
func translateBadgerErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no space") || strings.Contains(msg, "disk full") {
		return &tracker.QuotaError{Err: err}
	}
	return err
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any)   { l.logger.Error(fmt.Sprintf(format, args...)) }
func (l *badgerLogger) Warningf(format string, args ...any) { l.logger.Warn(fmt.Sprintf(format, args...)) }
func (l *badgerLogger) Infof(format string, args ...any)    { l.logger.Info(fmt.Sprintf(format, args...)) }
func (l *badgerLogger) Debugf(format string, args ...any)   { l.logger.Debug(fmt.Sprintf(format, args...)) }

// Compile-time check that BadgerStore implements tracker.Store.
var _ tracker.Store = (*BadgerStore)(nil)
