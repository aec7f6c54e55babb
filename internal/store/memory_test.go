// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/salesdesk/internal/models"
)

func TestMemoryAssignsIDsInOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	m.AddProduct(models.Product{ID: 5, Name: "five"})
	p1 := m.AddProduct(models.Product{Name: "six"})
	m.AddProduct(models.Product{ID: 2, Name: "two"})

	assert.Equal(t, 6, p1.ID)
	assert.False(t, p1.CreatedAt.IsZero())

	products, err := m.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []int{2, 5, 6}, []int{products[0].ID, products[1].ID, products[2].ID})
}

func TestMemoryPurchaseRequiresProduct(t *testing.T) {
	t.Parallel()
	m := NewMemory()

	_, err := m.AddPurchase(models.Purchase{CustomerID: 1, ProductID: 99})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	p := m.AddProduct(models.Product{Name: "Basic Plan", Price: 49.99})
	got, err := m.AddPurchase(models.Purchase{CustomerID: 1, ProductID: p.ID, Amount: 49.99})
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)
}

func TestMemoryCustomerNotFound(t *testing.T) {
	t.Parallel()
	m := NewMemory()

	_, err := m.Customer(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	m.AddProduct(models.Product{Name: "a", Category: "Software"})
	m.AddProduct(models.Product{Name: "b", Category: "Service"})
	m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Software", PreferenceLevel: 4})
	m.AddPreference(models.CustomerPreference{CustomerID: 2, Category: "Service", PreferenceLevel: 3})
	m.AddPreference(models.CustomerPreference{CustomerID: 1, Category: "Software", PreferenceLevel: 2})

	software, err := m.ProductsByCategory(ctx, "Software")
	require.NoError(t, err)
	require.Len(t, software, 1)
	assert.Equal(t, "a", software[0].Name)

	prefs, err := m.PreferencesByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, prefs, 2, "duplicates are kept")
	assert.Equal(t, 4, prefs[0].PreferenceLevel)
	assert.Equal(t, 2, prefs[1].PreferenceLevel)
}

func TestMemoryActivePromotions(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	m.AddPromotion(models.Promotion{Name: "live", StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 1, 0)})
	m.AddPromotion(models.Promotion{Name: "expired", StartDate: now.AddDate(-1, 0, 0), EndDate: now.AddDate(0, -2, 0)})
	m.AddPromotion(models.Promotion{Name: "ends now", StartDate: now.AddDate(0, -1, 0), EndDate: now})

	active, err := m.ActivePromotions(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "live", active[0].Name)
	assert.Equal(t, "ends now", active[1].Name)
}

func TestMemoryReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	m.AddCustomer(models.Customer{FirstName: "John", LastName: "Doe"})

	customers, err := m.Customers(ctx)
	require.NoError(t, err)
	customers[0].FirstName = "changed"

	again, err := m.Customers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "John", again[0].FirstName)
}

func TestMemoryFailWith(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("disk on fire")

	m.FailWith(boom)
	_, err := m.Products(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = m.RecordInteraction(ctx, models.Interaction{CustomerID: 1})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Ping(ctx), boom)

	m.FailWith(nil)
	_, err = m.Products(ctx)
	assert.NoError(t, err)
}

func TestMemoryRecordInteraction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	first, err := m.RecordInteraction(ctx, models.Interaction{CustomerID: 1, InteractionType: "call"})
	require.NoError(t, err)
	second, err := m.RecordInteraction(ctx, models.Interaction{CustomerID: 1, InteractionType: "email"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	list, err := m.InteractionsByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
