// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

const queryTimeout = 10 * time.Second

const (
	customerColumns    = `id, first_name, last_name, email, phone, agent_id, created_at`
	productColumns     = `id, name, description, category, price, created_at`
	purchaseColumns    = `id, customer_id, product_id, purchase_date, amount`
	interactionColumns = `id, customer_id, agent_id, interaction_type, notes, recommendations, created_at`
	preferenceColumns  = `id, customer_id, category, preference_level, created_at`
	promotionColumns   = `id, name, description, discount_percentage, start_date, end_date, product_category`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// queryAll runs query and scans every row with scan. The result is never nil.
func queryAll[T any](ctx context.Context, db *DB, table, query string, scan func(rowScanner) (T, error), args ...any) (result []T, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", table, start, err) }()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer closeRows(rows)

	result = []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return result, nil
}

func optionalInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func scanCustomer(r rowScanner) (models.Customer, error) {
	var c models.Customer
	var agentID sql.NullInt64
	err := r.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &agentID, &c.CreatedAt)
	c.AgentID = optionalInt(agentID)
	return c, err
}

func scanAgent(r rowScanner) (models.Agent, error) {
	var a models.Agent
	err := r.Scan(&a.ID, &a.Username, &a.Email, &a.Role, &a.CreatedAt)
	return a, err
}

func scanProduct(r rowScanner) (models.Product, error) {
	var p models.Product
	err := r.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.CreatedAt)
	return p, err
}

func scanPurchase(r rowScanner) (models.Purchase, error) {
	var p models.Purchase
	err := r.Scan(&p.ID, &p.CustomerID, &p.ProductID, &p.PurchaseDate, &p.Amount)
	return p, err
}

func scanInteraction(r rowScanner) (models.Interaction, error) {
	var in models.Interaction
	var agentID sql.NullInt64
	err := r.Scan(&in.ID, &in.CustomerID, &agentID, &in.InteractionType, &in.Notes, &in.Recommendations, &in.CreatedAt)
	in.AgentID = optionalInt(agentID)
	return in, err
}

func scanPreference(r rowScanner) (models.CustomerPreference, error) {
	var p models.CustomerPreference
	err := r.Scan(&p.ID, &p.CustomerID, &p.Category, &p.PreferenceLevel, &p.CreatedAt)
	return p, err
}

func scanPromotion(r rowScanner) (models.Promotion, error) {
	var p models.Promotion
	err := r.Scan(&p.ID, &p.Name, &p.Description, &p.DiscountPercentage, &p.StartDate, &p.EndDate, &p.ProductCategory)
	return p, err
}

// Customer returns the customer with id, or store.ErrNotFound.
func (db *DB) Customer(ctx context.Context, id int) (c models.Customer, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if errors.Is(err, store.ErrNotFound) {
			observe("select", "customers", start, nil)
			return
		}
		observe("select", "customers", start, err)
	}()

	row := db.conn.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err = scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, fmt.Errorf("customer %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return c, nil
}

func (db *DB) Customers(ctx context.Context) ([]models.Customer, error) {
	return queryAll(ctx, db, "customers", `SELECT `+customerColumns+` FROM customers ORDER BY id`, scanCustomer)
}

func (db *DB) Agents(ctx context.Context) ([]models.Agent, error) {
	return queryAll(ctx, db, "agents", `SELECT id, username, email, role, created_at FROM agents ORDER BY id`, scanAgent)
}

func (db *DB) Products(ctx context.Context) ([]models.Product, error) {
	return queryAll(ctx, db, "products", `SELECT `+productColumns+` FROM products ORDER BY id`, scanProduct)
}

func (db *DB) ProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return queryAll(ctx, db, "products",
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY id`, scanProduct, category)
}

func (db *DB) Purchases(ctx context.Context) ([]models.Purchase, error) {
	return queryAll(ctx, db, "purchases", `SELECT `+purchaseColumns+` FROM purchases ORDER BY id`, scanPurchase)
}

func (db *DB) PurchasesByCustomer(ctx context.Context, customerID int) ([]models.Purchase, error) {
	return queryAll(ctx, db, "purchases",
		`SELECT `+purchaseColumns+` FROM purchases WHERE customer_id = ? ORDER BY id`, scanPurchase, customerID)
}

func (db *DB) Interactions(ctx context.Context) ([]models.Interaction, error) {
	return queryAll(ctx, db, "interactions", `SELECT `+interactionColumns+` FROM interactions ORDER BY id`, scanInteraction)
}

func (db *DB) InteractionsByCustomer(ctx context.Context, customerID int) ([]models.Interaction, error) {
	return queryAll(ctx, db, "interactions",
		`SELECT `+interactionColumns+` FROM interactions WHERE customer_id = ? ORDER BY id`, scanInteraction, customerID)
}

func (db *DB) Preferences(ctx context.Context) ([]models.CustomerPreference, error) {
	return queryAll(ctx, db, "customer_preferences",
		`SELECT `+preferenceColumns+` FROM customer_preferences ORDER BY id`, scanPreference)
}

func (db *DB) PreferencesByCustomer(ctx context.Context, customerID int) ([]models.CustomerPreference, error) {
	return queryAll(ctx, db, "customer_preferences",
		`SELECT `+preferenceColumns+` FROM customer_preferences WHERE customer_id = ? ORDER BY id`, scanPreference, customerID)
}

func (db *DB) Promotions(ctx context.Context) ([]models.Promotion, error) {
	return queryAll(ctx, db, "promotions", `SELECT `+promotionColumns+` FROM promotions ORDER BY id`, scanPromotion)
}

// ActivePromotions returns promotions whose window contains at, both ends inclusive.
func (db *DB) ActivePromotions(ctx context.Context, at time.Time) ([]models.Promotion, error) {
	return queryAll(ctx, db, "promotions",
		`SELECT `+promotionColumns+` FROM promotions WHERE start_date <= ? AND end_date >= ? ORDER BY id`,
		scanPromotion, at.UTC(), at.UTC())
}

var _ store.ReadWriter = (*DB)(nil)
