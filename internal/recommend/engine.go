// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package recommend

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

// Engine computes product recommendations. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	config *Config
	reader store.Reader
	logger zerolog.Logger
	now    func() time.Time
}

// NewEngine creates a recommendation engine reading through reader.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(reader store.Reader, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if reader == nil {
		return nil, errors.New("recommend: nil reader")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		reader: reader,
		logger: logger.With().Str("component", "recommend").Logger(),
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the engine that uses now to decide which
// promotions are active.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	cp := *e
	cp.now = now
	return &cp
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

func (e *Engine) requestLogger(ctx context.Context) zerolog.Logger {
	l := e.logger.With()
	if id := logging.RequestIDFromContext(ctx); id != "" {
		l = l.Str("request_id", id)
	}
	return l.Logger()
}

// Recommend returns up to MaxResults scored products for customerID.
func (e *Engine) Recommend(ctx context.Context, customerID int) Result {
	start := time.Now()
	res := e.recommend(ctx, customerID)
	metrics.RecordRecommendation(string(res.Status), len(res.Items), time.Since(start))
	return res
}

func (e *Engine) recommend(ctx context.Context, customerID int) Result {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}
	log := e.requestLogger(ctx)

	if _, err := e.reader.Customer(ctx, customerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug().Int("customer_id", customerID).Msg("customer not found")
			return okOrEmpty(customerID, nil)
		}
		return e.fail(log, customerID, "load customer", err)
	}

	prefs, err := e.reader.PreferencesByCustomer(ctx, customerID)
	if err != nil {
		return e.fail(log, customerID, "load preferences", err)
	}

	purchases, err := e.reader.PurchasesByCustomer(ctx, customerID)
	if err != nil {
		return e.fail(log, customerID, "load purchases", err)
	}
	purchased := make(map[int]struct{}, len(purchases))
	for _, p := range purchases {
		purchased[p.ProductID] = struct{}{}
	}

	products, err := e.reader.Products(ctx)
	if err != nil {
		return e.fail(log, customerID, "load products", err)
	}

	promotions, err := e.reader.ActivePromotions(ctx, e.now())
	if err != nil {
		return e.fail(log, customerID, "load promotions", err)
	}

	items := e.config.score(products, purchased, FoldPreferences(prefs, e.config.PreferencePolicy), promotions)

	log.Debug().
		Int("customer_id", customerID).
		Int("products", len(products)).
		Int("returned", len(items)).
		Msg("recommendations computed")

	return okOrEmpty(customerID, items)
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) fail(log zerolog.Logger, customerID int, step string, err error) Result {
	log.Warn().Err(err).Int("customer_id", customerID).Str("step", step).Msg("recommendation failed")
	return failed(customerID, fmt.Sprintf("%s: %v", step, err))
}

// ProductsByCategory lists the products in one category.
func (e *Engine) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := e.reader.ProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("products in category %q: %w", category, err)
	}
	return products, nil
}
