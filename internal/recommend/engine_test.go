// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package recommend

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

var testNow = time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, reader store.Reader) *Engine {
	t.Helper()
	e, err := NewEngine(reader, DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e.WithClock(func() time.Time { return testNow })
}

func activePromo(name, category string, pct float64) models.Promotion {
	return models.Promotion{
		Name:               name,
		Description:        name + " discount",
		DiscountPercentage: pct,
		StartDate:          testNow.AddDate(0, -1, 0),
		EndDate:            testNow.AddDate(0, 1, 0),
		ProductCategory:    category,
	}
}

// catalog seeds the five standard products and one customer.
func catalog(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	m.AddCustomer(models.Customer{FirstName: "John", LastName: "Doe"})
	m.AddProduct(models.Product{Name: "Premium Account", Category: "Service", Price: 99.99})
	m.AddProduct(models.Product{Name: "Basic Plan", Category: "Service", Price: 49.99})
	m.AddProduct(models.Product{Name: "Security Package", Category: "Software", Price: 149.99})
	m.AddProduct(models.Product{Name: "Mobile Add-on", Category: "Add-on", Price: 9.99})
	m.AddProduct(models.Product{Name: "Business Analytics", Category: "Service", Price: 199.99})
	return m
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil reader")
	}

	cfg := DefaultConfig()
	cfg.MaxResults = 0
	if _, err := NewEngine(store.NewMemory(), cfg, zerolog.Nop()); err == nil {
		t.Error("expected error for max_results=0")
	}

	cfg = DefaultConfig()
	cfg.PreferencePolicy = "newest"
	if _, err := NewEngine(store.NewMemory(), cfg, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown preference policy")
	}
}

func TestRecommendSoftwarePreferenceWithPromotion(t *testing.T) {
	t.Parallel()

	m := catalog(t)
	m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Software", PreferenceLevel: 4})
	m.AddPromotion(activePromo("Software Bundle", "Software", 25))

	res := newTestEngine(t, m).Recommend(context.Background(), 1)
	if res.Status != StatusOK {
		t.Fatalf("status = %s, want ok (%s)", res.Status, res.Reason)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(res.Items), res.Items)
	}

	top := res.Items[0]
	if top.Name != "Security Package" {
		t.Errorf("top = %q, want Security Package", top.Name)
	}
	if top.Score != 6 {
		t.Errorf("score = %d, want 6", top.Score)
	}
	if len(top.Promotions) != 1 || top.Promotions[0].DiscountedPrice != 112.49 {
		t.Errorf("promotions = %+v, want one at 112.49", top.Promotions)
	}
}

func TestRecommendNoSignalsIsEmpty(t *testing.T) {
	t.Parallel()

	res := newTestEngine(t, catalog(t)).Recommend(context.Background(), 1)
	if res.Status != StatusEmpty {
		t.Errorf("status = %s, want empty", res.Status)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", res.Items)
	}
}

func TestRecommendExpiredPromotionIgnored(t *testing.T) {
	t.Parallel()

	m := catalog(t)
	m.AddPromotion(models.Promotion{
		Name:               "Summer Discount",
		DiscountPercentage: 20,
		StartDate:          time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2023, 8, 31, 0, 0, 0, 0, time.UTC),
		ProductCategory:    "Service",
	})

	res := newTestEngine(t, m).Recommend(context.Background(), 1)
	if res.Status != StatusEmpty {
		t.Errorf("status = %s, want empty", res.Status)
	}
}

func TestRecommendAllCategoryPromotion(t *testing.T) {
	t.Parallel()

	m := catalog(t)
	m.AddPromotion(activePromo("New Customer", models.AllCategories, 15))

	res := newTestEngine(t, m).Recommend(context.Background(), 1)
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(res.Items))
	}
	for _, it := range res.Items {
		if it.Score != 2 {
			t.Errorf("%s score = %d, want 2", it.Name, it.Score)
		}
		if len(it.Promotions) != 1 {
			t.Errorf("%s promotions = %d, want 1", it.Name, len(it.Promotions))
		}
	}
	// Equal scores keep product order.
	if res.Items[0].ProductID != 1 || res.Items[4].ProductID != 5 {
		t.Errorf("expected product order 1..5, got %d..%d", res.Items[0].ProductID, res.Items[4].ProductID)
	}
}

func TestRecommendExcludesPurchased(t *testing.T) {
	t.Parallel()

	m := catalog(t)
	m.AddPromotion(activePromo("New Customer", models.AllCategories, 15))
	if _, err := m.AddPurchase(models.Purchase{CustomerID: 1, ProductID: 1, Amount: 99.99}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddPurchase(models.Purchase{CustomerID: 1, ProductID: 4, Amount: 9.99}); err != nil {
		t.Fatal(err)
	}

	res := newTestEngine(t, m).Recommend(context.Background(), 1)
	for _, it := range res.Items {
		if it.ProductID == 1 || it.ProductID == 4 {
			t.Errorf("purchased product %d recommended", it.ProductID)
		}
	}
	if len(res.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(res.Items))
	}
}

func TestRecommendCapAndOrdering(t *testing.T) {
	t.Parallel()

	m := catalog(t)
	for i := 0; i < 4; i++ {
		m.AddProduct(models.Product{Name: "Extra", Category: "Add-on", Price: 5})
	}
	m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Service", PreferenceLevel: 3})
	m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Add-on", PreferenceLevel: 1})
	m.AddPromotion(activePromo("Summer Discount", "Service", 20))

	res := newTestEngine(t, m).Recommend(context.Background(), 1)
	if len(res.Items) != 5 {
		t.Fatalf("expected cap of 5, got %d", len(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Score > res.Items[i-1].Score {
			t.Fatalf("scores not non-increasing: %+v", res.Items)
		}
	}
	if res.Items[0].Name != "Premium Account" || res.Items[0].Score != 5 {
		t.Errorf("top = %s/%d, want Premium Account/5", res.Items[0].Name, res.Items[0].Score)
	}
	if got := res.Items[0].Promotions[0].DiscountedPrice; got != 79.99 {
		t.Errorf("discounted price = %v, want 79.99", got)
	}
}

func TestRecommendUnknownCustomer(t *testing.T) {
	t.Parallel()

	res := newTestEngine(t, catalog(t)).Recommend(context.Background(), 99)
	if res.Status != StatusEmpty || len(res.Items) != 0 || res.Reason != "" {
		t.Errorf("unexpected result for unknown customer: %+v", res)
	}
}

func TestRecommendStoreFailure(t *testing.T) {
	var buf bytes.Buffer
	m := catalog(t)
	m.FailWith(errors.New("database is locked"))

	e, err := NewEngine(m, DefaultConfig(), logging.NewTestLogger(&buf))
	if err != nil {
		t.Fatal(err)
	}
	res := e.Recommend(logging.ContextWithRequestID(context.Background(), "req-42"), 1)

	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status)
	}
	if len(res.Items) != 0 {
		t.Errorf("expected no items, got %d", len(res.Items))
	}
	if !strings.Contains(res.Reason, "database is locked") {
		t.Errorf("reason = %q", res.Reason)
	}
	out := buf.String()
	if !strings.Contains(out, "recommendation failed") || !strings.Contains(out, `"request_id":"req-42"`) {
		t.Errorf("expected warn log with request id, got %s", out)
	}
}

func TestRecommendPreferencePolicies(t *testing.T) {
	t.Parallel()

	build := func() *store.Memory {
		m := catalog(t)
		m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Software", PreferenceLevel: 5})
		m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Software", PreferenceLevel: 2})
		return m
	}

	last := newTestEngine(t, build()).Recommend(context.Background(), 1)
	if len(last.Items) != 1 || last.Items[0].Score != 3 {
		t.Errorf("last_write_wins: got %+v, want Security Package score 3", last.Items)
	}

	cfg := DefaultConfig()
	cfg.PreferencePolicy = PolicyMax
	e, err := NewEngine(build(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	maxRes := e.WithClock(func() time.Time { return testNow }).Recommend(context.Background(), 1)
	if len(maxRes.Items) != 1 || maxRes.Items[0].Score != 6 {
		t.Errorf("max: got %+v, want Security Package score 6", maxRes.Items)
	}
}

func TestProductsByCategory(t *testing.T) {
	t.Parallel()

	got, err := newTestEngine(t, catalog(t)).ProductsByCategory(context.Background(), "Service")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 Service products, got %d", len(got))
	}
}
