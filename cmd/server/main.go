// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package main is the entry point for the Salesdesk server.
//
// Salesdesk gives sales agents product recommendations per customer and an
// analytics summary over the CRM data kept in DuckDB.
//
// # Application Architecture
//
// Components are initialized in this order:
//
//  1. Configuration: defaults, optional config.yaml, environment (koanf v2)
//  2. Database: DuckDB, optionally seeded with the demo dataset
//  3. Read path: circuit breaker around the store, recommendation engine,
//     analytics aggregator, analytics cache (memory or Redis)
//  4. Write path: BadgerDB write-ahead log for new interactions
//  5. HTTP server and WAL loops under a suture supervisor tree
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the tree. The HTTP server drains in-flight
// requests for server.shutdown_timeout, then the WAL, cache and database
// are closed in reverse order of creation.
//
// # Example Usage
//
//	export DUCKDB_PATH=./data/salesdesk.duckdb
//	export SEED_SAMPLE_DATA=true
//	export WAL_PATH=./data/wal
//	export LOG_FORMAT=console
//	./salesdesk
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/salesdesk/internal/api"
	"github.com/tomtom215/salesdesk/internal/config"
	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/supervisor"
	"github.com/tomtom215/salesdesk/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Salesdesk stopped with an error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Addr()).
		Bool("wal_enabled", cfg.WAL.Enabled).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Msg("Starting Salesdesk")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := InitStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rp, err := InitReadPath(cfg, st)
	if err != nil {
		return err
	}
	defer rp.Close()

	wc, err := InitWAL(ctx, cfg, st.db, api.InvalidateAnalytics(rp.cache))
	if err != nil {
		return err
	}
	defer wc.Close()

	var recorder api.InteractionRecorder = api.NewDirectRecorder(st.db, api.InvalidateAnalytics(rp.cache))
	if wc != nil {
		recorder = wc.recorder
	}

	handler, err := api.NewHandler(api.Dependencies{
		Reader:     rp.reader,
		Engine:     rp.engine,
		Aggregator: rp.aggregator,
		Recorder:   recorder,
		Cache:      rp.cache,
	})
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, cfg.Security)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if wc != nil {
		wc.addServices(tree, cfg)
	}

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}
	logging.Info().Msg("Salesdesk stopped")
	return nil
}
