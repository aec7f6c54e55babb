// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package wal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

// Outcome describes what happened to one recorded interaction.
type Outcome struct {
	EntryID string

	// Interaction is the stored record. Zero when Deferred.
	Interaction models.Interaction

	// Deferred is set when the store write failed and the entry was left
	// pending for replay.
	Deferred bool
}

// ReplayResult summarises one replay pass.
type ReplayResult struct {
	Applied   int
	Retrying  int
	GaveUp    int
	Skipped   int
	Remaining int
}

// Recorder writes interactions through the WAL into a store.Writer.
type Recorder struct {
	wal       *WAL
	writer    store.Writer
	logger    zerolog.Logger
	onApplied func(models.Interaction)
}

// NewRecorder returns a Recorder. onApplied, when not nil, runs after every
// interaction that reaches the store, from Record or from Replay.
func NewRecorder(w *WAL, writer store.Writer, logger zerolog.Logger, onApplied func(models.Interaction)) *Recorder {
	return &Recorder{
		wal:       w,
		writer:    writer,
		logger:    logger.With().Str("component", "wal-recorder").Logger(),
		onApplied: onApplied,
	}
}

// Record logs in and tries to apply it immediately. A store failure is not
// an error: the entry stays pending and the Outcome is marked Deferred.
// Only a failure to persist the entry itself is returned.
func (r *Recorder) Record(ctx context.Context, in models.Interaction) (Outcome, error) {
	id := NewEntryID()
	r.wal.TryClaim(id)
	defer r.wal.Release(id)

	if err := r.wal.WriteWithID(ctx, id, &in); err != nil {
		return Outcome{}, fmt.Errorf("log interaction: %w", err)
	}

	stored, err := r.writer.RecordInteraction(ctx, in)
	if err != nil {
		if _, ferr := r.wal.RecordFailure(ctx, id, err); ferr != nil {
			r.logger.Warn().Err(ferr).Str("entry_id", id).Msg("Failed to record WAL attempt")
		}
		r.logger.Warn().Err(err).Str("entry_id", id).Int("customer_id", in.CustomerID).
			Msg("Store write failed, interaction deferred to replay")
		return Outcome{EntryID: id, Deferred: true}, nil
	}

	r.confirm(ctx, id, stored)
	return Outcome{EntryID: id, Interaction: stored}, nil
}

func (r *Recorder) confirm(ctx context.Context, id string, stored models.Interaction) {
	if err := r.wal.Confirm(ctx, id); err != nil {
		// The row is in the store; a replay of this entry would duplicate it.
		r.logger.Error().Err(err).Str("entry_id", id).Int("interaction_id", stored.ID).
			Msg("Failed to confirm applied WAL entry")
	}
	if r.onApplied != nil {
		r.onApplied(stored)
	}
}

// Replay applies every pending entry once.
func (r *Recorder) Replay(ctx context.Context) (ReplayResult, error) {
	var res ReplayResult

	pending, err := r.wal.Pending(ctx)
	if err != nil {
		return res, err
	}

	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !r.wal.TryClaim(entry.ID) {
			res.Skipped++
			continue
		}
		r.replayOne(ctx, entry, &res)
		r.wal.Release(entry.ID)
	}

	res.Remaining = int(r.wal.Stats().PendingCount)
	if res.Applied+res.GaveUp > 0 {
		r.logger.Info().
			Int("applied", res.Applied).
			Int("retrying", res.Retrying).
			Int("gave_up", res.GaveUp).
			Int("remaining", res.Remaining).
			Msg("WAL replay pass finished")
	}
	return res, nil
}

func (r *Recorder) replayOne(ctx context.Context, entry *Entry, res *ReplayResult) {
	var in models.Interaction
	if err := entry.UnmarshalPayload(&in); err != nil {
		r.fail(ctx, entry.ID, fmt.Errorf("decode payload: %w", err), res)
		return
	}

	stored, err := r.writer.RecordInteraction(ctx, in)
	if err != nil {
		r.fail(ctx, entry.ID, err, res)
		return
	}
	r.confirm(ctx, entry.ID, stored)
	res.Applied++
}

func (r *Recorder) fail(ctx context.Context, id string, cause error, res *ReplayResult) {
	exhausted, err := r.wal.RecordFailure(ctx, id, cause)
	if err != nil {
		r.logger.Warn().Err(err).Str("entry_id", id).Msg("Failed to record WAL attempt")
		res.Retrying++
		return
	}
	if exhausted {
		r.logger.Error().Err(cause).Str("entry_id", id).Msg("WAL entry exceeded max attempts, moved to failed")
		res.GaveUp++
		return
	}
	res.Retrying++
}
