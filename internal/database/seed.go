// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/store"
)

// SeedSampleData loads the demonstration dataset into an empty database.
// It returns false without writing when customers already exist.
func (db *DB) SeedSampleData(ctx context.Context) (bool, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count customers: %w", err)
	}
	if count > 0 {
		logging.Debug().Int("customers", count).Msg("Database already populated, skipping sample data")
		return false, nil
	}

	if err := store.Seed(ctx, db, store.Sample()); err != nil {
		return false, fmt.Errorf("failed to seed sample data: %w", err)
	}
	logging.Info().Msg("Sample data loaded")
	return true, nil
}

var _ store.Seeder = (*DB)(nil)
