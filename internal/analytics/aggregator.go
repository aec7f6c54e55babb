// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package analytics computes CRM-wide summary statistics.
//
// The Aggregator folds the raw collections of a store.Reader in one pass.
// When the reader (or the reader it wraps) can group in the database, it
// implements GroupedSource and the Aggregator pushes the work down instead.
// Both paths order groups by value descending and break ties by first-seen
// order, where "first seen" is the group's lowest contributing record ID.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/metrics"
	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

// GroupedSource is implemented by stores that can compute the summary
// with their own grouping (SQL GROUP BY).
type GroupedSource interface {
	GroupedSummary(ctx context.Context, topSellers int) (models.AnalyticsSummary, error)
}

// Status of an aggregation.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Execution paths reported in Result.Path.
const (
	PathSQL  = "sql"
	PathFold = "fold"
)

// Result is the outcome of one Aggregate call. On failure Summary is the
// zero summary.
type Result struct {
	Status  Status                  `json:"status"`
	Summary models.AnalyticsSummary `json:"summary"`
	Path    string                  `json:"path"`
	Reason  string                  `json:"reason,omitempty"`
}

// Config controls the aggregator.
type Config struct {
	// TopSellers is the length of the best_sellers list.
	TopSellers int

	// Pushdown enables GroupedSource when the reader offers it.
	Pushdown bool

	// Timeout bounds one Aggregate call. Zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns the standard aggregator settings.
func DefaultConfig() *Config {
	return &Config{TopSellers: 5, Pushdown: true, Timeout: 10 * time.Second}
}

// Aggregator computes AnalyticsSummary values. It keeps no state between
// calls and is safe for concurrent use.
type Aggregator struct {
	reader  store.Reader
	grouped GroupedSource
	cfg     Config
	logger  zerolog.Logger
}

// NewAggregator creates an aggregator reading through reader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAggregator(reader store.Reader, cfg *Config, logger zerolog.Logger) (*Aggregator, error) {
	if reader == nil {
		return nil, errors.New("analytics: nil reader")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.TopSellers < 1 {
		return nil, fmt.Errorf("analytics: top_sellers must be positive, got %d", cfg.TopSellers)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("analytics: timeout must be non-negative, got %v", cfg.Timeout)
	}

	a := &Aggregator{
		reader: reader,
		cfg:    *cfg,
		logger: logger.With().Str("component", "analytics").Logger(),
	}
	if cfg.Pushdown {
		a.grouped = findGrouped(reader)
	}
	return a, nil
}

// guard is implemented by Reader decorators (store.Breaker) that must see
// every backend call, including ones made through a discovered capability.
type guard interface {
	Guard(fn func() (any, error)) (any, error)
}

type guardedSource struct {
	inner  GroupedSource
	guards []guard
}

func (g guardedSource) GroupedSummary(ctx context.Context, topSellers int) (models.AnalyticsSummary, error) {
	call := func() (any, error) { return g.inner.GroupedSummary(ctx, topSellers) }
	// guards[0] is the outermost decorator, so it wraps last.
	for i := len(g.guards) - 1; i >= 0; i-- {
		gd, next := g.guards[i], call
		call = func() (any, error) { return gd.Guard(next) }
	}
	out, err := call()
	if err != nil {
		return models.AnalyticsSummary{}, err
	}
	return out.(models.AnalyticsSummary), nil
}

// findGrouped looks for a GroupedSource on reader or on the readers it wraps.
// Decorators passed on the way are kept so pushdown calls still go through them.
func findGrouped(r store.Reader) GroupedSource {
	var guards []guard
	for r != nil {
		if g, ok := r.(GroupedSource); ok {
			if len(guards) == 0 {
				return g
			}
			return guardedSource{inner: g, guards: guards}
		}
		if gd, ok := r.(guard); ok {
			guards = append(guards, gd)
		}
		u, ok := r.(interface{ Unwrap() store.Reader })
		if !ok {
			return nil
		}
		r = u.Unwrap()
	}
	return nil
}

// Path reports which execution path Aggregate uses.
func (a *Aggregator) Path() string {
	if a.grouped != nil {
		return PathSQL
	}
	return PathFold
}

// Aggregate computes the summary. It never returns an error; failures are
// logged and reported through Result.Status.
func (a *Aggregator) Aggregate(ctx context.Context) Result {
	start := time.Now()
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	path := a.Path()
	var (
		summary models.AnalyticsSummary
		err     error
	)
	if a.grouped != nil {
		summary, err = a.grouped.GroupedSummary(ctx, a.cfg.TopSellers)
	} else {
		summary, err = a.fold(ctx)
	}

	res := Result{Status: StatusOK, Summary: summary, Path: path}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("component", "analytics").Str("path", path).Msg("analytics aggregation failed")
		res = Result{Status: StatusFailed, Summary: models.EmptySummary(), Path: path, Reason: err.Error()}
	} else {
		a.logger.Debug().
			Str("path", path).
			Int("customers", summary.TotalCustomers).
			Int("purchases", summary.TotalProductsSold).
			Dur("took", time.Since(start)).
			Msg("analytics aggregated")
	}

	metrics.RecordAnalytics(string(res.Status), path, time.Since(start))
	return res
}
