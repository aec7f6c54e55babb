// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/salesdesk/internal/config"
	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
	"github.com/tomtom215/salesdesk/internal/supervisor"
	"github.com/tomtom215/salesdesk/internal/supervisor/services"
	"github.com/tomtom215/salesdesk/internal/wal"
)

// WALComponents holds the write-ahead log and its recorder.
type WALComponents struct {
	wal      *wal.WAL
	recorder *wal.Recorder
}

// InitWAL opens the interaction WAL. It returns nil when the WAL is
// disabled; interactions are then written directly and lost on a store
// failure.
func InitWAL(ctx context.Context, cfg *config.Config, writer store.Writer, onApplied func(models.Interaction)) (*WALComponents, error) {
	if !cfg.WAL.Enabled {
		logging.Warn().Msg("WAL disabled (WAL_ENABLED=false). Interactions are lost if the store write fails.")
		return nil, nil
	}

	walCfg := wal.DefaultConfig(cfg.WAL.Path)
	walCfg.MaxAttempts = cfg.WAL.MaxAttempts
	logging.Info().Str("path", walCfg.Path).Bool("sync_writes", walCfg.SyncWrites).Msg("Initializing WAL...")

	w, err := wal.Open(walCfg)
	if err != nil {
		return nil, fmt.Errorf("open WAL: %w", err)
	}

	recorder := wal.NewRecorder(w, writer, logging.WithComponent("wal"), onApplied)

	// Entries left by a previous run; the replay service retries the rest.
	res, err := recorder.Replay(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("WAL recovery error")
	} else if res.Applied+res.Retrying+res.GaveUp > 0 {
		logging.Info().
			Int("applied", res.Applied).
			Int("retrying", res.Retrying).
			Int("gave_up", res.GaveUp).
			Msg("WAL recovery completed")
	}

	return &WALComponents{wal: w, recorder: recorder}, nil
}

func (c *WALComponents) addServices(tree *supervisor.SupervisorTree, cfg *config.Config) {
	tree.AddDataService(services.NewWALReplayService(c.recorder, cfg.WAL.ReplayInterval, logging.Logger()))
	tree.AddDataService(services.NewWALMaintenanceService(c.wal, cfg.WAL.GCInterval, logging.Logger()))
}

// Close closes the WAL. Safe on a nil receiver.
func (c *WALComponents) Close() {
	if c == nil {
		return
	}
	closeLogged("wal", c.wal.Close)
}
