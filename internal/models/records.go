// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package models

import "time"

// AllCategories is the Promotion.ProductCategory sentinel that matches every product.
const AllCategories = "All"

// DefaultAgentID is used when an interaction is recorded without an agent.
const DefaultAgentID = 1

// Agent is a sales agent. Credentials are not stored here.
type Agent struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Customer is a person a sales agent works with.
type Customer struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	AgentID   *int      `json:"agent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns "First Last".
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Product is something that can be sold. Category is free-form.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// Purchase records that a customer bought a product. Immutable once created.
type Purchase struct {
	ID           int       `json:"id"`
	CustomerID   int       `json:"customer_id"`
	ProductID    int       `json:"product_id"`
	PurchaseDate time.Time `json:"purchase_date"`
	Amount       float64   `json:"amount"`
}

// Interaction is an append-only log entry of agent/customer contact.
type Interaction struct {
	ID              int       `json:"id"`
	CustomerID      int       `json:"customer_id"`
	AgentID         *int      `json:"agent_id,omitempty"`
	InteractionType string    `json:"interaction_type"`
	Notes           string    `json:"notes"`
	Recommendations string    `json:"recommendations,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CustomerPreference is a customer's affinity (1-5) for a category. A customer
// may hold several rows for the same category; they are not deduplicated.
type CustomerPreference struct {
	ID              int       `json:"id"`
	CustomerID      int       `json:"customer_id"`
	Category        string    `json:"category"`
	PreferenceLevel int       `json:"preference_level"`
	CreatedAt       time.Time `json:"created_at"`
}

// Promotion is a time-boxed percentage discount on one category, or on
// every category when ProductCategory is AllCategories.
type Promotion struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DiscountPercentage float64   `json:"discount_percentage"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	ProductCategory    string    `json:"product_category"`
}

// ActiveAt reports whether at falls within [StartDate, EndDate].
func (p *Promotion) ActiveAt(at time.Time) bool {
	return !at.Before(p.StartDate) && !at.After(p.EndDate)
}

// AppliesTo reports whether the promotion covers category.
func (p *Promotion) AppliesTo(category string) bool {
	return p.ProductCategory == AllCategories || p.ProductCategory == category
}

// PurchaseDetail is a purchase joined to its product, as shown in a
// customer's purchase history.
type PurchaseDetail struct {
	PurchaseID      int       `json:"purchase_id"`
	ProductID       int       `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ProductCategory string    `json:"product_category"`
	Amount          float64   `json:"amount"`
	Date            string    `json:"date"`
	PurchaseDate    time.Time `json:"purchase_date"`
}
