// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/salesdesk/internal/models"
)

// tally counts values per key and remembers the order keys first appeared.
type tally[K comparable] struct {
	order []K
	sum   map[K]float64
	count map[K]int
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{sum: map[K]float64{}, count: map[K]int{}}
}

func (t *tally[K]) add(key K, v float64) {
	if _, seen := t.count[key]; !seen {
		t.order = append(t.order, key)
	}
	t.count[key]++
	t.sum[key] += v
}

// ranked returns keys by descending value, ties in first-seen order.
func (t *tally[K]) ranked(value func(K) float64) []K {
	keys := slices.Clone(t.order)
	slices.SortStableFunc(keys, func(a, b K) int { return cmp.Compare(value(b), value(a)) })
	return keys
}

func (t *tally[K]) byCount() []K {
	return t.ranked(func(k K) float64 { return float64(t.count[k]) })
}

func (t *tally[K]) byAverage() []K {
	return t.ranked(func(k K) float64 { return t.sum[k] / float64(t.count[k]) })
}

// fold computes the summary from the raw collections.
func (a *Aggregator) fold(ctx context.Context) (models.AnalyticsSummary, error) {
	customers, err := a.reader.Customers(ctx)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("load customers: %w", err)
	}
	products, err := a.reader.Products(ctx)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("load products: %w", err)
	}
	purchases, err := a.reader.Purchases(ctx)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("load purchases: %w", err)
	}
	interactions, err := a.reader.Interactions(ctx)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("load interactions: %w", err)
	}
	prefs, err := a.reader.Preferences(ctx)
	if err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("load preferences: %w", err)
	}

	return Fold(customers, products, purchases, interactions, prefs, a.cfg.TopSellers), nil
}

// Fold builds an AnalyticsSummary from collections in ascending ID order.
// Purchases whose product is unknown are left out of the category and
// best-seller lists but still count toward TotalProductsSold.
func Fold(
	customers []models.Customer,
	products []models.Product,
	purchases []models.Purchase,
	interactions []models.Interaction,
	prefs []models.CustomerPreference,
	topSellers int,
) models.AnalyticsSummary {
	s := models.EmptySummary()
	s.TotalCustomers = len(customers)
	s.TotalProductsSold = len(purchases)
	s.TotalInteractions = len(interactions)

	byID := make(map[int]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	categories := newTally[string]()
	sellers := newTally[int]()
	for _, p := range purchases {
		product, ok := byID[p.ProductID]
		if !ok {
			continue
		}
		categories.add(product.Category, 1)
		sellers.add(product.ID, 1)
	}
	for _, c := range categories.byCount() {
		s.PopularCategories = append(s.PopularCategories, models.CategoryCount{Category: c, Count: categories.count[c]})
	}
	for _, id := range sellers.byCount() {
		if len(s.BestSellers) == topSellers {
			break
		}
		s.BestSellers = append(s.BestSellers, models.ProductCount{ID: id, Name: byID[id].Name, Count: sellers.count[id]})
	}

	levels := newTally[string]()
	for _, p := range prefs {
		levels.add(p.Category, float64(p.PreferenceLevel))
	}
	for _, c := range levels.byAverage() {
		s.PreferenceData = append(s.PreferenceData, models.CategoryAverage{
			Category: c,
			Average:  levels.sum[c] / float64(levels.count[c]),
		})
	}

	types := newTally[string]()
	for _, in := range interactions {
		types.add(in.InteractionType, 1)
	}
	for _, typ := range types.byCount() {
		s.InteractionTypes = append(s.InteractionTypes, models.TypeCount{Type: typ, Count: types.count[typ]})
	}

	return s
}
