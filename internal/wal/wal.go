// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package wal is a BadgerDB write-ahead log for recorded interactions.
//
// An interaction is persisted here before it is applied to the store. If the
// store write fails the entry stays pending and the replay loop retries it
// until it is applied or runs out of attempts. Keys are laid out as:
//
//	pending:<id>    awaiting application
//	confirmed:<id>  applied; removed by Compact after the retention period
//	failed:<id>     gave up after MaxAttempts
package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/metrics"
)

var (
	ErrWALClosed     = errors.New("WAL is closed")
	ErrNilEvent      = errors.New("event cannot be nil")
	ErrEmptyEntryID  = errors.New("entry ID cannot be empty")
	ErrEntryNotFound = errors.New("entry not found")
)

const (
	prefixPending   = "pending:"
	prefixConfirmed = "confirmed:"
	prefixFailed    = "failed:"
)

// Config configures the WAL.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the log in memory only. Used by tests.
	InMemory bool

	SyncWrites bool

	// MaxAttempts is how many failed applications an entry survives
	// before it is moved to failed:.
	MaxAttempts int

	// ConfirmedRetention is how long confirmed entries are kept.
	ConfirmedRetention time.Duration

	// GCRatio is passed to RunValueLogGC.
	GCRatio float64
}

// DefaultConfig returns the standard settings for a WAL at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:               path,
		SyncWrites:         true,
		MaxAttempts:        20,
		ConfirmedRetention: time.Hour,
		GCRatio:            0.5,
	}
}

// Entry is one logged event.
type Entry struct {
	ID            string          `json:"id"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	Attempts      int             `json:"attempts"`
	LastAttemptAt time.Time       `json:"last_attempt_at,omitempty"`
	LastError     string          `json:"last_error,omitempty"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
}

// UnmarshalPayload decodes the payload into v.
func (e *Entry) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Stats is a point-in-time view of the log.
type Stats struct {
	PendingCount   int64
	ConfirmedCount int64
	FailedCount    int64
	TotalWrites    int64
	TotalConfirms  int64
}

// WAL is a BadgerDB-backed write-ahead log.
type WAL struct {
	db  *badger.DB
	cfg Config

	totalWrites   atomic.Int64
	totalConfirms atomic.Int64

	mu     sync.RWMutex
	closed bool

	// processing holds IDs of entries being applied right now, so the
	// replay loop never applies an entry a request is still working on.
	processing sync.Map
}

// Open opens (or creates) the log.
func Open(cfg Config) (*WAL, error) {
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("wal: max attempts must be positive, got %d", cfg.MaxAttempts)
	}
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	w := &WAL{db: db, cfg: cfg}
	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("WAL opened")
	return w, nil
}

// Config returns the settings the WAL was opened with.
func (w *WAL) Config() Config {
	return w.cfg
}

func (w *WAL) checkOpen() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrWALClosed
	}
	return nil
}

// NewEntryID returns a fresh entry ID.
func NewEntryID() string {
	return uuid.New().String()
}

// Write persists event under a new ID and returns it.
func (w *WAL) Write(ctx context.Context, event any) (string, error) {
	id := NewEntryID()
	if err := w.WriteWithID(ctx, id, event); err != nil {
		return "", err
	}
	return id, nil
}

// WriteWithID persists event under id. Callers that must claim the entry
// before it becomes visible to replay generate the ID themselves.
func (w *WAL) WriteWithID(_ context.Context, id string, event any) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if event == nil {
		return ErrNilEvent
	}
	if id == "" {
		return ErrEmptyEntryID
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	data, err := json.Marshal(&Entry{ID: id, Payload: payload, CreatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	err = w.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPending+id), data)
	})
	if err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}

	w.totalWrites.Add(1)
	metrics.WALWritesTotal.Inc()
	return nil
}

// move rewrites the pending entry id under prefix after applying update.
func (w *WAL) move(id, prefix string, update func(*Entry)) error {
	pendingKey := []byte(prefixPending + id)
	return w.db.Update(func(txn *badger.Txn) error {
		entry, err := getEntry(txn, pendingKey)
		if err != nil {
			return err
		}
		update(entry)
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if err := txn.Set([]byte(prefix+id), data); err != nil {
			return fmt.Errorf("set entry: %w", err)
		}
		if err := txn.Delete(pendingKey); err != nil {
			return fmt.Errorf("delete pending entry: %w", err)
		}
		return nil
	})
}

func getEntry(txn *badger.Txn, key []byte) (*Entry, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	var entry Entry
	if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &entry) }); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return &entry, nil
}

// Confirm marks a pending entry as applied.
func (w *WAL) Confirm(_ context.Context, id string) error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if id == "" {
		return ErrEmptyEntryID
	}
	err := w.move(id, prefixConfirmed, func(e *Entry) {
		now := time.Now().UTC()
		e.ConfirmedAt = &now
	})
	if err != nil {
		return err
	}
	w.totalConfirms.Add(1)
	metrics.WALConfirmsTotal.Inc()
	return nil
}

// RecordFailure increments a pending entry's attempt count. Once the count
// reaches MaxAttempts the entry is moved to failed: and true is returned.
func (w *WAL) RecordFailure(_ context.Context, id string, cause error) (bool, error) {
	if err := w.checkOpen(); err != nil {
		return false, err
	}
	key := []byte(prefixPending + id)
	exhausted := false
	err := w.db.Update(func(txn *badger.Txn) error {
		entry, err := getEntry(txn, key)
		if err != nil {
			return err
		}
		entry.Attempts++
		entry.LastAttemptAt = time.Now().UTC()
		if cause != nil {
			entry.LastError = cause.Error()
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		if entry.Attempts >= w.cfg.MaxAttempts {
			exhausted = true
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete pending entry: %w", err)
			}
			return txn.Set([]byte(prefixFailed+id), data)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return false, err
	}
	metrics.WALRetriesTotal.Inc()
	return exhausted, nil
}

// Pending returns unconfirmed entries in key order from one snapshot.
func (w *WAL) Pending(ctx context.Context) ([]*Entry, error) {
	return w.list(ctx, prefixPending)
}

// Failed returns entries that ran out of attempts.
func (w *WAL) Failed(ctx context.Context) ([]*Entry, error) {
	return w.list(ctx, prefixFailed)
}

func (w *WAL) list(ctx context.Context, prefix string) ([]*Entry, error) {
	if err := w.checkOpen(); err != nil {
		return nil, err
	}

	var entries []*Entry
	err := w.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var entry Entry
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &entry) }); err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("WAL skipping unreadable entry")
				continue
			}
			entries = append(entries, &entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate %s entries: %w", prefix, err)
	}
	return entries, nil
}

// TryClaim marks id as being processed. It returns false if another
// goroutine already holds it.
func (w *WAL) TryClaim(id string) bool {
	_, loaded := w.processing.LoadOrStore(id, struct{}{})
	return !loaded
}

// Release drops a claim taken with TryClaim.
func (w *WAL) Release(id string) {
	w.processing.Delete(id)
}

// Compact deletes confirmed entries older than the retention period and
// returns how many were removed.
func (w *WAL) Compact(ctx context.Context) (int, error) {
	if err := w.checkOpen(); err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-w.cfg.ConfirmedRetention)

	var stale [][]byte
	err := w.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefixConfirmed)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			var entry Entry
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &entry) }); err != nil {
				continue
			}
			if entry.ConfirmedAt == nil || entry.ConfirmedAt.Before(cutoff) {
				stale = append(stale, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan confirmed entries: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	wb := w.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("delete confirmed entry: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush compaction: %w", err)
	}
	return len(stale), nil
}

// RunGC reclaims value log space. It is a no-op for in-memory logs.
func (w *WAL) RunGC() error {
	if err := w.checkOpen(); err != nil {
		return err
	}
	if w.cfg.InMemory {
		return nil
	}
	for {
		err := w.db.RunValueLogGC(w.cfg.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Stats counts entries per state.
func (w *WAL) Stats() Stats {
	s := Stats{TotalWrites: w.totalWrites.Load(), TotalConfirms: w.totalConfirms.Load()}
	if w.checkOpen() != nil {
		return s
	}

	err := w.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for _, c := range []struct {
			prefix string
			n      *int64
		}{
			{prefixPending, &s.PendingCount},
			{prefixConfirmed, &s.ConfirmedCount},
			{prefixFailed, &s.FailedCount},
		} {
			p := []byte(c.prefix)
			for it.Seek(p); it.ValidForPrefix(p); it.Next() {
				*c.n++
			}
		}
		return nil
	})
	if err != nil {
		logging.Warn().Err(err).Msg("WAL failed to count entries")
	}
	metrics.WALPendingEntries.Set(float64(s.PendingCount))
	return s
}

// Close closes the underlying database. It is safe to call more than once.
func (w *WAL) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("WAL closed")
	return nil
}
