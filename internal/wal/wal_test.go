// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package wal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

func openTestWAL(t *testing.T, maxAttempts int) *WAL {
	t.Helper()
	cfg := DefaultConfig("")
	cfg.InMemory = true
	cfg.SyncWrites = false
	cfg.MaxAttempts = maxAttempts
	w, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestOpenRejectsZeroAttempts(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig("")
	cfg.InMemory = true
	cfg.MaxAttempts = 0
	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestWriteConfirmLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 3)

	id, err := w.Write(ctx, &models.Interaction{CustomerID: 1, InteractionType: "call"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	pending, err := w.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)

	var in models.Interaction
	require.NoError(t, pending[0].UnmarshalPayload(&in))
	assert.Equal(t, "call", in.InteractionType)

	require.NoError(t, w.Confirm(ctx, id))
	pending, err = w.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stats := w.Stats()
	assert.Equal(t, int64(0), stats.PendingCount)
	assert.Equal(t, int64(1), stats.ConfirmedCount)
	assert.Equal(t, int64(1), stats.TotalWrites)
	assert.Equal(t, int64(1), stats.TotalConfirms)

	assert.ErrorIs(t, w.Confirm(ctx, id), ErrEntryNotFound)
}

func TestWriteValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 3)

	_, err := w.Write(ctx, nil)
	assert.ErrorIs(t, err, ErrNilEvent)
	assert.ErrorIs(t, w.WriteWithID(ctx, "", "x"), ErrEmptyEntryID)
	assert.ErrorIs(t, w.Confirm(ctx, ""), ErrEmptyEntryID)
}

func TestRecordFailureExhaustsAttempts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 2)

	id, err := w.Write(ctx, "payload")
	require.NoError(t, err)

	exhausted, err := w.RecordFailure(ctx, id, errors.New("db down"))
	require.NoError(t, err)
	assert.False(t, exhausted)

	pending, err := w.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
	assert.Equal(t, "db down", pending[0].LastError)

	exhausted, err = w.RecordFailure(ctx, id, errors.New("still down"))
	require.NoError(t, err)
	assert.True(t, exhausted)

	failed, err := w.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 2, failed[0].Attempts)
	assert.Equal(t, int64(0), w.Stats().PendingCount)
}

func TestCompactRemovesConfirmed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := DefaultConfig("")
	cfg.InMemory = true
	cfg.ConfirmedRetention = -time.Second
	w, err := Open(cfg)
	require.NoError(t, err)
	defer w.Close()

	id, err := w.Write(ctx, "a")
	require.NoError(t, err)
	_, err = w.Write(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, w.Confirm(ctx, id))

	removed, err := w.Compact(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	stats := w.Stats()
	assert.Equal(t, int64(0), stats.ConfirmedCount)
	assert.Equal(t, int64(1), stats.PendingCount)
	assert.NoError(t, w.RunGC())
}

func TestClosedWAL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 3)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err := w.Write(ctx, "x")
	assert.ErrorIs(t, err, ErrWALClosed)
	_, err = w.Pending(ctx)
	assert.ErrorIs(t, err, ErrWALClosed)
	assert.ErrorIs(t, w.RunGC(), ErrWALClosed)
}

func TestClaims(t *testing.T) {
	t.Parallel()
	w := openTestWAL(t, 3)

	assert.True(t, w.TryClaim("a"))
	assert.False(t, w.TryClaim("a"))
	w.Release("a")
	assert.True(t, w.TryClaim("a"))
}

// appliedLog collects onApplied callbacks.
type appliedLog struct {
	mu  sync.Mutex
	ids []int
}

func (l *appliedLog) add(in models.Interaction) {
	l.mu.Lock()
	l.ids = append(l.ids, in.ID)
	l.mu.Unlock()
}

func (l *appliedLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

func TestRecorderAppliesImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 3)
	mem := store.NewMemory()
	applied := &appliedLog{}
	r := NewRecorder(w, mem, zerolog.Nop(), applied.add)

	out, err := r.Record(ctx, models.Interaction{CustomerID: 1, InteractionType: "email", Notes: "hello"})
	require.NoError(t, err)
	assert.False(t, out.Deferred)
	assert.Equal(t, 1, out.Interaction.ID)
	assert.NotEmpty(t, out.EntryID)
	assert.Equal(t, 1, applied.count())

	stats := w.Stats()
	assert.Equal(t, int64(0), stats.PendingCount)
	assert.Equal(t, int64(1), stats.ConfirmedCount)
}

func TestRecorderDefersAndReplays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 5)
	mem := store.NewMemory()
	applied := &appliedLog{}
	r := NewRecorder(w, mem, zerolog.Nop(), applied.add)

	mem.FailWith(errors.New("connection refused"))
	out, err := r.Record(ctx, models.Interaction{CustomerID: 2, InteractionType: "chat"})
	require.NoError(t, err)
	assert.True(t, out.Deferred)
	assert.Zero(t, out.Interaction.ID)
	assert.Equal(t, 0, applied.count())

	res, err := r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, 1, res.Retrying)
	assert.Equal(t, 1, res.Remaining)

	mem.FailWith(nil)
	res, err = r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 1, applied.count())

	got, err := mem.InteractionsByCustomer(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "chat", got[0].InteractionType)
}

func TestRecorderGivesUp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 2)
	mem := store.NewMemory()
	r := NewRecorder(w, mem, zerolog.Nop(), nil)

	mem.FailWith(errors.New("disk full"))
	_, err := r.Record(ctx, models.Interaction{CustomerID: 3, InteractionType: "call"})
	require.NoError(t, err)

	res, err := r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.GaveUp)
	assert.Equal(t, 0, res.Remaining)

	failed, err := w.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "disk full", failed[0].LastError)
}

func TestReplaySkipsClaimedEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	w := openTestWAL(t, 3)
	r := NewRecorder(w, store.NewMemory(), zerolog.Nop(), nil)

	id := NewEntryID()
	require.NoError(t, w.WriteWithID(ctx, id, &models.Interaction{CustomerID: 1, InteractionType: "call"}))
	require.True(t, w.TryClaim(id))

	res, err := r.Replay(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Remaining)
}
