// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/salesdesk/internal/analytics"
	"github.com/tomtom215/salesdesk/internal/cache"
	"github.com/tomtom215/salesdesk/internal/config"
	"github.com/tomtom215/salesdesk/internal/database"
	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/recommend"
	"github.com/tomtom215/salesdesk/internal/store"
)

// StoreComponents owns the database.
type StoreComponents struct {
	db *database.DB
}

// InitStore opens DuckDB and seeds the demo dataset when configured.
func InitStore(ctx context.Context, cfg *config.Config) (*StoreComponents, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedSampleData {
		seeded, err := db.SeedSampleData(ctx)
		if err != nil {
			closeLogged("database", db.Close)
			return nil, fmt.Errorf("seed sample data: %w", err)
		}
		logging.Info().Bool("seeded", seeded).Msg("Sample data check finished")
	}
	return &StoreComponents{db: db}, nil
}

// Close closes the database.
func (s *StoreComponents) Close() {
	closeLogged("database", s.db.Close)
}

// ReadPathComponents serve the GET endpoints.
type ReadPathComponents struct {
	reader     store.Reader
	engine     *recommend.Engine
	aggregator *analytics.Aggregator
	cache      cache.Store
}

// InitReadPath wraps the database in the circuit breaker and builds the
// engine, the aggregator and the analytics cache.
func InitReadPath(cfg *config.Config, st *StoreComponents) (*ReadPathComponents, error) {
	var reader store.Reader = st.db
	if cfg.Breaker.Enabled {
		reader = store.NewBreaker(st.db, breakerConfig(&cfg.Breaker))
		logging.Info().Float64("failure_ratio", cfg.Breaker.FailureRatio).Msg("Store circuit breaker enabled")
	}

	engine, err := recommend.NewEngine(reader, recommendConfig(&cfg.Recommend), logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("initialize recommendation engine: %w", err)
	}
	aggregator, err := analytics.NewAggregator(reader, analyticsConfig(&cfg.Analytics), logging.WithComponent("analytics"))
	if err != nil {
		return nil, fmt.Errorf("initialize analytics: %w", err)
	}
	logging.Info().Str("path", aggregator.Path()).Msg("Analytics aggregator ready")

	c, err := cache.New(&cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	if c != nil {
		logging.Info().Str("backend", cfg.Cache.Backend).Dur("ttl", cfg.Cache.TTL).Msg("Analytics cache enabled")
	}

	return &ReadPathComponents{reader: reader, engine: engine, aggregator: aggregator, cache: c}, nil
}

// Close releases the cache.
func (rp *ReadPathComponents) Close() {
	if rp.cache != nil {
		closeLogged("cache", rp.cache.Close)
	}
}

func breakerConfig(c *config.BreakerConfig) store.BreakerConfig {
	return store.BreakerConfig{
		Name:         "duckdb-reader",
		MaxRequests:  c.MaxRequests,
		Interval:     c.Interval,
		Timeout:      c.Timeout,
		MinRequests:  c.MinRequests,
		FailureRatio: c.FailureRatio,
	}
}

func recommendConfig(c *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		BaseScore:        c.BaseScore,
		MinScore:         c.MinScore,
		PromotionBoost:   c.PromotionBoost,
		MaxResults:       c.MaxResults,
		PreferencePolicy: recommend.PreferencePolicy(c.PreferencePolicy),
		Timeout:          c.Timeout,
	}
}

func analyticsConfig(c *config.AnalyticsConfig) *analytics.Config {
	return &analytics.Config{
		TopSellers: c.TopSellers,
		Pushdown:   c.Pushdown,
		Timeout:    c.Timeout,
	}
}

func closeLogged(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logging.Error().Err(err).Str("component", name).Msg("Error during close")
	}
}
