// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
)

// insertReturningID executes an INSERT ... RETURNING id statement.
func (db *DB) insertReturningID(ctx context.Context, table, query string, args ...any) (id int, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", table, start, err) }()

	if err = db.conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return id, nil
}

// stamp returns t in UTC, or the current time when t is zero.
func (db *DB) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return db.now().UTC()
	}
	return t.UTC()
}

// RecordInteraction appends an interaction. IDs come from the sequence;
// in.ID is ignored.
func (db *DB) RecordInteraction(ctx context.Context, in models.Interaction) (models.Interaction, error) {
	in.CreatedAt = db.stamp(in.CreatedAt)
	id, err := db.insertReturningID(ctx, "interactions",
		`INSERT INTO interactions (customer_id, agent_id, interaction_type, notes, recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		in.CustomerID, nullableInt(in.AgentID), in.InteractionType, in.Notes, in.Recommendations, in.CreatedAt)
	if err != nil {
		return models.Interaction{}, err
	}
	in.ID = id
	return in, nil
}

// InsertAgent stores an agent and returns it with its assigned ID.
func (db *DB) InsertAgent(ctx context.Context, a models.Agent) (models.Agent, error) {
	if a.Role == "" {
		a.Role = "agent"
	}
	a.CreatedAt = db.stamp(a.CreatedAt)
	id, err := db.insertReturningID(ctx, "agents",
		`INSERT INTO agents (username, email, role, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		a.Username, a.Email, a.Role, a.CreatedAt)
	if err != nil {
		return models.Agent{}, err
	}
	a.ID = id
	return a, nil
}

// InsertCustomer stores a customer.
func (db *DB) InsertCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	c.CreatedAt = db.stamp(c.CreatedAt)
	id, err := db.insertReturningID(ctx, "customers",
		`INSERT INTO customers (first_name, last_name, email, phone, agent_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		c.FirstName, c.LastName, c.Email, c.Phone, nullableInt(c.AgentID), c.CreatedAt)
	if err != nil {
		return models.Customer{}, err
	}
	c.ID = id
	return c, nil
}

// InsertProduct stores a product.
func (db *DB) InsertProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.CreatedAt = db.stamp(p.CreatedAt)
	id, err := db.insertReturningID(ctx, "products",
		`INSERT INTO products (name, description, category, price, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		p.Name, p.Description, p.Category, p.Price, p.CreatedAt)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = id
	return p, nil
}

// InsertPurchase stores a purchase. The customer and product must exist.
func (db *DB) InsertPurchase(ctx context.Context, p models.Purchase) (models.Purchase, error) {
	p.PurchaseDate = db.stamp(p.PurchaseDate)
	id, err := db.insertReturningID(ctx, "purchases",
		`INSERT INTO purchases (customer_id, product_id, purchase_date, amount)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		p.CustomerID, p.ProductID, p.PurchaseDate, p.Amount)
	if err != nil {
		return models.Purchase{}, err
	}
	p.ID = id
	return p, nil
}

// InsertPreference stores a preference row. Duplicate categories are kept.
func (db *DB) InsertPreference(ctx context.Context, p models.CustomerPreference) (models.CustomerPreference, error) {
	p.CreatedAt = db.stamp(p.CreatedAt)
	id, err := db.insertReturningID(ctx, "customer_preferences",
		`INSERT INTO customer_preferences (customer_id, category, preference_level, created_at)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		p.CustomerID, p.Category, p.PreferenceLevel, p.CreatedAt)
	if err != nil {
		return models.CustomerPreference{}, err
	}
	p.ID = id
	return p, nil
}

// InsertPromotion stores a promotion.
func (db *DB) InsertPromotion(ctx context.Context, p models.Promotion) (models.Promotion, error) {
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	id, err := db.insertReturningID(ctx, "promotions",
		`INSERT INTO promotions (name, description, discount_percentage, start_date, end_date, product_category)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		p.Name, p.Description, p.DiscountPercentage, p.StartDate, p.EndDate, p.ProductCategory)
	if err != nil {
		return models.Promotion{}, err
	}
	p.ID = id
	return p, nil
}
