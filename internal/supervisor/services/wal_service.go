// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salesdesk/internal/wal"
)

// Replayer applies pending WAL entries. Satisfied by *wal.Recorder.
type Replayer interface {
	Replay(ctx context.Context) (wal.ReplayResult, error)
}

// Maintainer compacts confirmed entries and reclaims log space.
// Satisfied by *wal.WAL.
type Maintainer interface {
	Compact(ctx context.Context) (int, error)
	RunGC() error
}

var (
	_ Replayer   = (*wal.Recorder)(nil)
	_ Maintainer = (*wal.WAL)(nil)
)

// WALReplayService retries deferred interactions. It replays once on start
// so entries left over from a previous run are applied without waiting a
// full interval.
type WALReplayService struct {
	replayer Replayer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewWALReplayService returns a replay loop with the given interval.
func NewWALReplayService(replayer Replayer, interval time.Duration, logger zerolog.Logger) *WALReplayService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &WALReplayService{
		replayer: replayer,
		interval: interval,
		logger:   logger.With().Str("component", "wal-replay").Logger(),
		name:     "wal-replay",
	}
}

// Serve implements suture.Service. Replay errors are logged; the loop
// keeps going until ctx is canceled.
func (s *WALReplayService) Serve(ctx context.Context) error {
	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *WALReplayService) runOnce(ctx context.Context) {
	res, err := s.replayer.Replay(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Msg("WAL replay pass failed")
		return
	}
	if res.Remaining > 0 {
		s.logger.Debug().Int("remaining", res.Remaining).Int("retrying", res.Retrying).Msg("WAL entries still pending")
	}
}

// String implements fmt.Stringer.
func (s *WALReplayService) String() string {
	return s.name
}

// WALMaintenanceService periodically drops confirmed entries past their
// retention and runs value-log GC.
type WALMaintenanceService struct {
	maintainer Maintainer
	interval   time.Duration
	logger     zerolog.Logger
	name       string
}

// NewWALMaintenanceService returns a maintenance loop with the given interval.
func NewWALMaintenanceService(m Maintainer, interval time.Duration, logger zerolog.Logger) *WALMaintenanceService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &WALMaintenanceService{
		maintainer: m,
		interval:   interval,
		logger:     logger.With().Str("component", "wal-maintenance").Logger(),
		name:       "wal-maintenance",
	}
}

// Serve implements suture.Service.
func (s *WALMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *WALMaintenanceService) runOnce(ctx context.Context) {
	removed, err := s.maintainer.Compact(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WAL compaction failed")
	} else if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("WAL compacted")
	}
	if err := s.maintainer.RunGC(); err != nil {
		s.logger.Warn().Err(err).Msg("WAL value log GC failed")
	}
}

// String implements fmt.Stringer.
func (s *WALMaintenanceService) String() string {
	return s.name
}
