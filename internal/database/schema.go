// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package database

import (
	"context"
	"fmt"
	"time"
)

// Timestamps are always supplied by the application so the in-memory store
// and DuckDB agree on clock source; no column has a CURRENT_TIMESTAMP default.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS agents_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS customers_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS products_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS purchases_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS interactions_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS customer_preferences_id_seq START 1`,
	`CREATE SEQUENCE IF NOT EXISTS promotions_id_seq START 1`,

	`CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY DEFAULT nextval('agents_id_seq'),
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'agent',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY DEFAULT nextval('customers_id_seq'),
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		agent_id INTEGER,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY DEFAULT nextval('products_id_seq'),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		price DOUBLE NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id INTEGER PRIMARY KEY DEFAULT nextval('purchases_id_seq'),
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		purchase_date TIMESTAMP NOT NULL,
		amount DOUBLE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY DEFAULT nextval('interactions_id_seq'),
		customer_id INTEGER NOT NULL,
		agent_id INTEGER,
		interaction_type TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		recommendations TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customer_preferences (
		id INTEGER PRIMARY KEY DEFAULT nextval('customer_preferences_id_seq'),
		customer_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		preference_level INTEGER NOT NULL CHECK (preference_level BETWEEN 1 AND 5),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id INTEGER PRIMARY KEY DEFAULT nextval('promotions_id_seq'),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		discount_percentage DOUBLE NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		product_category TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_purchases_customer ON purchases(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_customer ON interactions(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_preferences_customer ON customer_preferences(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
}

func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
