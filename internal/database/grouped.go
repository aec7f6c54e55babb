// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/salesdesk/internal/analytics"
	"github.com/tomtom215/salesdesk/internal/models"
)

// Each grouping carries MIN(id) AS first_seen so ties resolve the same way
// as the in-process fold: lowest contributing record ID first.
const (
	totalsQuery = `
		SELECT
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM purchases),
			(SELECT COUNT(*) FROM interactions)`

	popularCategoriesQuery = `
		SELECT pr.category, COUNT(*) AS cnt, MIN(pu.id) AS first_seen
		FROM purchases pu
		JOIN products pr ON pr.id = pu.product_id
		GROUP BY pr.category
		ORDER BY cnt DESC, first_seen ASC`

	preferenceAveragesQuery = `
		SELECT category, AVG(preference_level) AS avg_level, MIN(id) AS first_seen
		FROM customer_preferences
		GROUP BY category
		ORDER BY avg_level DESC, first_seen ASC`

	interactionTypesQuery = `
		SELECT interaction_type, COUNT(*) AS cnt, MIN(id) AS first_seen
		FROM interactions
		GROUP BY interaction_type
		ORDER BY cnt DESC, first_seen ASC`

	bestSellersQuery = `
		SELECT pr.id, pr.name, COUNT(*) AS cnt, MIN(pu.id) AS first_seen
		FROM purchases pu
		JOIN products pr ON pr.id = pu.product_id
		GROUP BY pr.id, pr.name
		ORDER BY cnt DESC, first_seen ASC
		LIMIT ?`
)

// GroupedSummary computes the analytics summary inside DuckDB.
func (db *DB) GroupedSummary(ctx context.Context, topSellers int) (models.AnalyticsSummary, error) {
	s := models.EmptySummary()

	if err := db.totals(ctx, &s); err != nil {
		return models.AnalyticsSummary{}, err
	}

	var err error
	s.PopularCategories, err = queryAll(ctx, db, "purchases", popularCategoriesQuery,
		func(r rowScanner) (models.CategoryCount, error) {
			var c models.CategoryCount
			var firstSeen int
			err := r.Scan(&c.Category, &c.Count, &firstSeen)
			return c, err
		})
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("popular categories: %w", err)
	}

	s.PreferenceData, err = queryAll(ctx, db, "customer_preferences", preferenceAveragesQuery,
		func(r rowScanner) (models.CategoryAverage, error) {
			var c models.CategoryAverage
			var firstSeen int
			err := r.Scan(&c.Category, &c.Average, &firstSeen)
			return c, err
		})
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("preference averages: %w", err)
	}

	s.InteractionTypes, err = queryAll(ctx, db, "interactions", interactionTypesQuery,
		func(r rowScanner) (models.TypeCount, error) {
			var t models.TypeCount
			var firstSeen int
			err := r.Scan(&t.Type, &t.Count, &firstSeen)
			return t, err
		})
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("interaction types: %w", err)
	}

	s.BestSellers, err = queryAll(ctx, db, "purchases", bestSellersQuery,
		func(r rowScanner) (models.ProductCount, error) {
			var p models.ProductCount
			var firstSeen int
			err := r.Scan(&p.ID, &p.Name, &p.Count, &firstSeen)
			return p, err
		}, topSellers)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("best sellers: %w", err)
	}

	return s, nil
}

func (db *DB) totals(ctx context.Context, s *models.AnalyticsSummary) (err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() { observe("aggregate", "totals", start, err) }()

	err = db.conn.QueryRowContext(ctx, totalsQuery).Scan(&s.TotalCustomers, &s.TotalProductsSold, &s.TotalInteractions)
	if err != nil {
		return fmt.Errorf("failed to count totals: %w", err)
	}
	return nil
}

var _ analytics.GroupedSource = (*DB)(nil)
