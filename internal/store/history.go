// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/tomtom215/salesdesk/internal/models"
)

// PurchaseHistory returns a customer's purchases joined to their products,
// newest first. Purchases of unknown products are skipped.
func PurchaseHistory(ctx context.Context, r Reader, customerID int) ([]models.PurchaseDetail, error) {
	purchases, err := r.PurchasesByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load purchases: %w", err)
	}
	products, err := r.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	history := make([]models.PurchaseDetail, 0, len(purchases))
	for _, pu := range purchases {
		product, ok := byID[pu.ProductID]
		if !ok {
			continue
		}
		history = append(history, models.PurchaseDetail{
			PurchaseID:      pu.ID,
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductCategory: product.Category,
			Amount:          pu.Amount,
			Date:            pu.PurchaseDate.Format("2006-01-02"),
			PurchaseDate:    pu.PurchaseDate,
		})
	}
	slices.SortStableFunc(history, func(a, b models.PurchaseDetail) int {
		if c := b.PurchaseDate.Compare(a.PurchaseDate); c != 0 {
			return c
		}
		return cmp.Compare(b.PurchaseID, a.PurchaseID)
	})
	return history, nil
}

// RecentInteractions returns a customer's interactions newest first.
func RecentInteractions(ctx context.Context, r Reader, customerID int) ([]models.Interaction, error) {
	interactions, err := r.InteractionsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	slices.SortStableFunc(interactions, func(a, b models.Interaction) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return interactions, nil
}
