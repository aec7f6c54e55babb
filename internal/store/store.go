// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package store defines the data-access capabilities the recommendation
// engine and the analytics aggregator are built on.
//
// Components receive a Reader in their constructor rather than reaching
// for a shared session. Three implementations exist:
//
//   - Memory: thread-safe in-memory collections, used by tests and demos
//   - database.DB: DuckDB
//   - Breaker: decorates any Reader with a circuit breaker
//
// Every collection is returned in ascending ID order.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
)

// ErrNotFound is returned when a record lookup by ID finds nothing.
var ErrNotFound = errors.New("record not found")

// Reader is read-only access to the CRM collections.
type Reader interface {
	Customer(ctx context.Context, id int) (models.Customer, error)
	Customers(ctx context.Context) ([]models.Customer, error)
	Agents(ctx context.Context) ([]models.Agent, error)

	Products(ctx context.Context) ([]models.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]models.Product, error)

	Purchases(ctx context.Context) ([]models.Purchase, error)
	PurchasesByCustomer(ctx context.Context, customerID int) ([]models.Purchase, error)

	Interactions(ctx context.Context) ([]models.Interaction, error)
	InteractionsByCustomer(ctx context.Context, customerID int) ([]models.Interaction, error)

	Preferences(ctx context.Context) ([]models.CustomerPreference, error)
	PreferencesByCustomer(ctx context.Context, customerID int) ([]models.CustomerPreference, error)

	Promotions(ctx context.Context) ([]models.Promotion, error)
	ActivePromotions(ctx context.Context, at time.Time) ([]models.Promotion, error)

	Ping(ctx context.Context) error
}

// Writer appends interactions. The returned Interaction carries the
// assigned ID and creation time.
type Writer interface {
	RecordInteraction(ctx context.Context, in models.Interaction) (models.Interaction, error)
}

// ReadWriter is a store that supports both capabilities.
type ReadWriter interface {
	Reader
	Writer
}
