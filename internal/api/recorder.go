// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"context"
	"time"

	"github.com/tomtom215/salesdesk/internal/cache"
	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
	"github.com/tomtom215/salesdesk/internal/wal"
)

// InteractionRecorder persists a new interaction. *wal.Recorder satisfies it.
type InteractionRecorder interface {
	Record(ctx context.Context, in models.Interaction) (wal.Outcome, error)
}

var _ InteractionRecorder = (*wal.Recorder)(nil)

// DirectRecorder writes straight to the store. Used when the WAL is disabled;
// a store failure is returned to the caller and the interaction is lost.
type DirectRecorder struct {
	writer    store.Writer
	onApplied func(models.Interaction)
}

// NewDirectRecorder returns a recorder without durability. onApplied may be nil.
func NewDirectRecorder(writer store.Writer, onApplied func(models.Interaction)) *DirectRecorder {
	return &DirectRecorder{writer: writer, onApplied: onApplied}
}

// Record implements InteractionRecorder.
func (d *DirectRecorder) Record(ctx context.Context, in models.Interaction) (wal.Outcome, error) {
	stored, err := d.writer.RecordInteraction(ctx, in)
	if err != nil {
		return wal.Outcome{}, err
	}
	if d.onApplied != nil {
		d.onApplied(stored)
	}
	return wal.Outcome{Interaction: stored}, nil
}

// analyticsCacheKey holds the last successful analytics.Result.
const analyticsCacheKey = "analytics:summary"

// invalidateTimeout bounds the cache delete issued after a write.
const invalidateTimeout = 2 * time.Second

// InvalidateAnalytics returns an onApplied callback that drops the cached
// analytics summary. It returns nil when c is nil.
func InvalidateAnalytics(c cache.Store) func(models.Interaction) {
	if c == nil {
		return nil
	}
	return func(in models.Interaction) {
		ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
		defer cancel()
		if err := c.Delete(ctx, analyticsCacheKey); err != nil {
			logging.Warn().Err(err).Int("interaction_id", in.ID).Msg("Failed to invalidate analytics cache")
		}
	}
}
