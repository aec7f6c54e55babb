// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salesdesk/internal/analytics"
	"github.com/tomtom215/salesdesk/internal/config"
	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

// DuckDB tests share process-wide native resources; run them one at a time.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := New(&config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func seededTestDB(t *testing.T) *DB {
	t.Helper()
	db := setupTestDB(t)
	seeded, err := db.SeedSampleData(context.Background())
	if err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}
	if !seeded {
		t.Fatal("expected sample data to be written to an empty database")
	}
	return db
}

func TestNewAndPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestCustomerLookup(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	c, err := db.Customer(ctx, 2)
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if c.FullName() != "Jane Smith" {
		t.Errorf("FullName() = %q, want Jane Smith", c.FullName())
	}
	if c.AgentID == nil || *c.AgentID != 1 {
		t.Errorf("AgentID = %v, want 1", c.AgentID)
	}

	_, err = db.Customer(ctx, 999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCollectionsOrderedByID(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	products, err := db.Products(ctx)
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(products) != 5 {
		t.Fatalf("got %d products, want 5", len(products))
	}
	for i, p := range products {
		if p.ID != i+1 {
			t.Errorf("products[%d].ID = %d", i, p.ID)
		}
	}

	services, err := db.ProductsByCategory(ctx, "Service")
	if err != nil {
		t.Fatalf("ProductsByCategory: %v", err)
	}
	var names []string
	for _, p := range services {
		names = append(names, p.Name)
	}
	want := []string{"Premium Account", "Basic Plan", "Business Analytics"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Service products = %v, want %v", names, want)
	}

	none, err := db.ProductsByCategory(ctx, "Hardware")
	if err != nil {
		t.Fatalf("ProductsByCategory: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}

	prefs, err := db.PreferencesByCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("PreferencesByCustomer: %v", err)
	}
	if len(prefs) != 2 || prefs[0].Category != "Software" || prefs[1].PreferenceLevel != 3 {
		t.Errorf("unexpected preferences: %+v", prefs)
	}

	purchases, err := db.PurchasesByCustomer(ctx, 3)
	if err != nil {
		t.Fatalf("PurchasesByCustomer: %v", err)
	}
	if len(purchases) != 1 || purchases[0].ProductID != 2 || purchases[0].Amount != 49.99 {
		t.Errorf("unexpected purchases: %+v", purchases)
	}
}

func TestActivePromotionsInclusiveWindow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	if _, err := db.InsertPromotion(ctx, models.Promotion{
		Name: "June", DiscountPercentage: 10, StartDate: start, EndDate: end, ProductCategory: "Service",
	}); err != nil {
		t.Fatalf("InsertPromotion: %v", err)
	}

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"before", start.Add(-time.Second), 0},
		{"start boundary", start, 1},
		{"inside", start.Add(72 * time.Hour), 1},
		{"end boundary", end, 1},
		{"after", end.Add(time.Second), 0},
	}
	for _, tt := range tests {
		got, err := db.ActivePromotions(ctx, tt.at)
		if err != nil {
			t.Fatalf("%s: ActivePromotions: %v", tt.name, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d promotions, want %d", tt.name, len(got), tt.want)
		}
	}
}

func TestRecordInteraction(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	got, err := db.RecordInteraction(ctx, models.Interaction{
		CustomerID:      1,
		InteractionType: "meeting",
		Notes:           "Quarterly review",
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if got.ID != 4 {
		t.Errorf("ID = %d, want 4", got.ID)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	list, err := db.InteractionsByCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("InteractionsByCustomer: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d interactions, want 2", len(list))
	}
	if list[1].AgentID != nil {
		t.Errorf("AgentID = %v, want nil", *list[1].AgentID)
	}
	if list[1].Notes != "Quarterly review" {
		t.Errorf("Notes = %q", list[1].Notes)
	}
}

func TestPreferenceLevelConstraint(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.InsertPreference(context.Background(), models.CustomerPreference{
		CustomerID: 1, Category: "Service", PreferenceLevel: 9,
	})
	if err == nil {
		t.Fatal("expected CHECK constraint violation for level 9")
	}
}

func TestSeedSampleDataIsIdempotent(t *testing.T) {
	db := seededTestDB(t)

	seeded, err := db.SeedSampleData(context.Background())
	if err != nil {
		t.Fatalf("SeedSampleData: %v", err)
	}
	if seeded {
		t.Error("second seed should be skipped")
	}
	customers, err := db.Customers(context.Background())
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 3 {
		t.Errorf("got %d customers, want 3", len(customers))
	}
}

// foldFrom runs the in-process fold over the same collections.
func foldFrom(t *testing.T, db *DB, topSellers int) models.AnalyticsSummary {
	t.Helper()
	ctx := context.Background()
	customers, err := db.Customers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	products, err := db.Products(ctx)
	if err != nil {
		t.Fatal(err)
	}
	purchases, err := db.Purchases(ctx)
	if err != nil {
		t.Fatal(err)
	}
	interactions, err := db.Interactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	prefs, err := db.Preferences(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return analytics.Fold(customers, products, purchases, interactions, prefs, topSellers)
}

func TestGroupedSummaryMatchesFold(t *testing.T) {
	db := seededTestDB(t)
	ctx := context.Background()

	// Extra rows so counts and averages are not all equal.
	for _, pid := range []int{4, 4, 3} {
		if _, err := db.InsertPurchase(ctx, models.Purchase{CustomerID: 1, ProductID: pid, Amount: 1}); err != nil {
			t.Fatalf("InsertPurchase: %v", err)
		}
	}
	if _, err := db.InsertPreference(ctx, models.CustomerPreference{CustomerID: 2, Category: "Service", PreferenceLevel: 5}); err != nil {
		t.Fatalf("InsertPreference: %v", err)
	}
	if _, err := db.RecordInteraction(ctx, models.Interaction{CustomerID: 2, InteractionType: "email"}); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}

	got, err := db.GroupedSummary(ctx, 3)
	if err != nil {
		t.Fatalf("GroupedSummary: %v", err)
	}
	want := foldFrom(t, db, 3)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupedSummary differs from Fold:\n got %+v\nwant %+v", got, want)
	}

	if got.TotalProductsSold != 6 {
		t.Errorf("TotalProductsSold = %d, want 6", got.TotalProductsSold)
	}
	if len(got.BestSellers) != 3 || got.BestSellers[0].Name != "Mobile Add-on" || got.BestSellers[0].Count != 3 {
		t.Errorf("unexpected best sellers: %+v", got.BestSellers)
	}
	if got.InteractionTypes[0].Type != "email" || got.InteractionTypes[0].Count != 2 {
		t.Errorf("unexpected interaction types: %+v", got.InteractionTypes)
	}
}

func TestGroupedSummaryTieBreakFirstSeen(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	c, err := db.InsertCustomer(ctx, models.Customer{FirstName: "Ada", LastName: "Byron"})
	if err != nil {
		t.Fatal(err)
	}
	service, err := db.InsertProduct(ctx, models.Product{Name: "Plan", Category: "Service", Price: 10})
	if err != nil {
		t.Fatal(err)
	}
	software, err := db.InsertProduct(ctx, models.Product{Name: "Suite", Category: "Software", Price: 20})
	if err != nil {
		t.Fatal(err)
	}

	// Software is purchased first, so it wins the 1-1 tie despite the higher product ID.
	for _, pid := range []int{software.ID, service.ID} {
		if _, err := db.InsertPurchase(ctx, models.Purchase{CustomerID: c.ID, ProductID: pid, Amount: 1}); err != nil {
			t.Fatal(err)
		}
	}
	for _, typ := range []string{"chat", "call"} {
		if _, err := db.RecordInteraction(ctx, models.Interaction{CustomerID: c.ID, InteractionType: typ}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.GroupedSummary(ctx, 5)
	if err != nil {
		t.Fatalf("GroupedSummary: %v", err)
	}
	if got.PopularCategories[0].Category != "Software" || got.PopularCategories[1].Category != "Service" {
		t.Errorf("popular categories = %+v, want Software then Service", got.PopularCategories)
	}
	if got.BestSellers[0].ID != software.ID {
		t.Errorf("best sellers = %+v, want Suite first", got.BestSellers)
	}
	if got.InteractionTypes[0].Type != "chat" {
		t.Errorf("interaction types = %+v, want chat first", got.InteractionTypes)
	}
	if want := foldFrom(t, db, 5); !reflect.DeepEqual(got, want) {
		t.Errorf("GroupedSummary differs from Fold:\n got %+v\nwant %+v", got, want)
	}
}

func TestGroupedSummaryEmpty(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GroupedSummary(context.Background(), 5)
	if err != nil {
		t.Fatalf("GroupedSummary: %v", err)
	}
	if !reflect.DeepEqual(got, models.EmptySummary()) {
		t.Errorf("expected empty summary, got %+v", got)
	}
}

func TestAggregatorUsesPushdown(t *testing.T) {
	db := seededTestDB(t)

	agg, err := analytics.NewAggregator(store.NewBreaker(db, store.DefaultBreakerConfig()), analytics.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	res := agg.Aggregate(context.Background())
	if res.Status != analytics.StatusOK {
		t.Fatalf("status = %s (%s)", res.Status, res.Reason)
	}
	if res.Path != analytics.PathSQL {
		t.Errorf("path = %s, want %s", res.Path, analytics.PathSQL)
	}
	if res.Summary.TotalCustomers != 3 || res.Summary.TotalInteractions != 3 {
		t.Errorf("unexpected totals: %+v", res.Summary)
	}
}
