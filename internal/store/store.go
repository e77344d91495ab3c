// Lantern - Social Content Sharing and Discovery
// Copyright 2026 Lantern Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lanternhq/lantern

// Package store provides the BadgerDB-backed document store used by all
// Lantern services. Documents are stored as JSON values under keys of the
// form "<collection>/<id>", so a prefix scan over "<collection>/" iterates
// a whole collection.
//
// The store is deliberately dumb: services own their documents and their
// invariants; the store only provides durable keyed reads, writes, and
// prefix scans.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lanternhq/lantern/internal/logging"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: document not found")

// Config holds store configuration.
type Config struct {
	// Path is the directory for the Badger database files.
	// Ignored when InMemory is true.
	Path string

	// InMemory runs the store without disk persistence. Used in tests.
	InMemory bool

	// GCInterval is how often value-log garbage collection runs.
	// Default: 10 minutes.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum garbage ratio before a value-log
	// file is rewritten. Default: 0.5.
	GCDiscardRatio float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Path:           "/data/lantern",
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// Store is a keyed JSON document store on top of BadgerDB.
// It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	config Config
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store at cfg.Path.
func Open(cfg Config) (*Store, error) {
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}
	if cfg.GCDiscardRatio <= 0 {
		cfg.GCDiscardRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.InMemory = cfg.InMemory
	if cfg.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}
	// Badger logs through its own interface; route it to zerolog.
	logger := logging.WithComponent("store")
	opts.Logger = badgerLogger{logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("document store opened")

	return &Store{db: db, config: cfg, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Key builds a document key from a collection name and document id.
func Key(collection, id string) string {
	return collection + "/" + id
}

// Put serializes v as JSON and writes it under Key(collection, id).
func (s *Store) Put(ctx context.Context, collection, id string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(Key(collection, id)), data)
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get reads the document under Key(collection, id) into v.
// Returns ErrNotFound if the document does not exist.
func (s *Store) Get(ctx context.Context, collection, id string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(collection, id)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document under Key(collection, id).
// Deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(Key(collection, id)))
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// Scan iterates every document in the collection, invoking fn with the
// document id and raw JSON value. Returning an error from fn stops the
// scan and propagates the error.
func (s *Store) Scan(ctx context.Context, collection string, fn func(id string, value []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := []byte(collection + "/")
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				return fn(id, val)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// RunGC performs one round of value-log garbage collection.
// badger.ErrNoRewrite (nothing to collect) is not an error.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(s.config.GCDiscardRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// badgerLogger adapts badger's logger interface to zerolog.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debug().Msgf(format, args...) }
