// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/salesdesk/internal/models"
)

func TestPurchaseHistoryNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	basic := m.AddProduct(models.Product{Name: "Basic Plan", Category: "Service", Price: 49.99})
	addon := m.AddProduct(models.Product{Name: "Mobile Add-on", Category: "Add-on", Price: 9.99})
	jan := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)

	_, err := m.AddPurchase(models.Purchase{CustomerID: 1, ProductID: basic.ID, Amount: 49.99, PurchaseDate: jan})
	require.NoError(t, err)
	_, err = m.AddPurchase(models.Purchase{CustomerID: 1, ProductID: addon.ID, Amount: 9.99, PurchaseDate: mar})
	require.NoError(t, err)
	_, err = m.AddPurchase(models.Purchase{CustomerID: 2, ProductID: addon.ID, Amount: 9.99, PurchaseDate: mar})
	require.NoError(t, err)

	history, err := PurchaseHistory(ctx, m, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Mobile Add-on", history[0].ProductName)
	assert.Equal(t, "2024-03-02", history[0].Date)
	assert.Equal(t, "Service", history[1].ProductCategory)
}

func TestPurchaseHistoryPropagatesFailure(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	m.FailWith(assert.AnError)

	_, err := PurchaseHistory(context.Background(), m, 1)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRecentInteractionsNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	for i, typ := range []string{"call", "email", "chat"} {
		_, err := m.RecordInteraction(ctx, models.Interaction{
			CustomerID:      7,
			InteractionType: typ,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	got, err := RecentInteractions(ctx, m, 7)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"chat", "email", "call"},
		[]string{got[0].InteractionType, got[1].InteractionType, got[2].InteractionType})
}

func TestSeedSampleIntoMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, Seed(ctx, m, Sample()))

	customers, err := m.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	require.NotNil(t, customers[0].AgentID)
	assert.Equal(t, 1, *customers[0].AgentID)

	products, err := m.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	purchases, err := m.Purchases(ctx)
	require.NoError(t, err)
	require.Len(t, purchases, 3)
	assert.Equal(t, 4, purchases[1].ProductID)

	prefs, err := m.PreferencesByCustomer(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, prefs, 2)

	promos, err := m.ActivePromotions(ctx, time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, promos, 3)
}
