// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package recommend

import (
	"testing"

	"github.com/tomtom215/salesdesk/internal/models"
)

func TestDiscountedPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price, pct, want float64
	}{
		{99.99, 20, 79.99},
		{149.99, 25, 112.49},
		{49.99, 15, 42.49},
		{9.99, 0, 9.99},
		{199.99, 100, 0},
	}
	for _, tt := range tests {
		if got := DiscountedPrice(tt.price, tt.pct); got != tt.want {
			t.Errorf("DiscountedPrice(%v, %v) = %v, want %v", tt.price, tt.pct, got, tt.want)
		}
	}
}

func TestFoldPreferences(t *testing.T) {
	t.Parallel()

	prefs := []models.CustomerPreference{
		{ID: 1, Category: "Software", PreferenceLevel: 4},
		{ID: 2, Category: "Service", PreferenceLevel: 3},
		{ID: 3, Category: "Software", PreferenceLevel: 1},
	}

	last := FoldPreferences(prefs, PolicyLastWriteWins)
	if last["Software"] != 1 || last["Service"] != 3 {
		t.Errorf("last_write_wins = %v", last)
	}

	highest := FoldPreferences(prefs, PolicyMax)
	if highest["Software"] != 4 || highest["Service"] != 3 {
		t.Errorf("max = %v", highest)
	}

	if got := FoldPreferences(nil, PolicyMax); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestScoreMinScoreFilter(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	products := []models.Product{
		{ID: 1, Category: "Service", Price: 10},
		{ID: 2, Category: "Software", Price: 20},
	}

	items := cfg.score(products, map[int]struct{}{}, map[string]int{}, nil)
	if len(items) != 0 {
		t.Errorf("expected base-score products to be dropped, got %+v", items)
	}

	items = cfg.score(products, map[int]struct{}{}, map[string]int{"Software": 1}, nil)
	if len(items) != 1 || items[0].ProductID != 2 || items[0].Score != 2 {
		t.Errorf("expected product 2 at score 2, got %+v", items)
	}
	if items[0].Promotions == nil {
		t.Error("promotions must be non-nil")
	}
}
