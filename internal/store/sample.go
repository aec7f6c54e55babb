// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
)

// SampleData is a small demonstration CRM. References between records are
// 0-based indexes into the sibling slices; Seed maps them to assigned IDs.
type SampleData struct {
	Agents       []models.Agent
	Customers    []models.Customer
	Products     []models.Product
	Promotions   []models.Promotion
	Preferences  []SamplePreference
	Purchases    []SamplePurchase
	Interactions []SampleInteraction
}

// SamplePreference references a customer by index.
type SamplePreference struct {
	Customer int
	Category string
	Level    int
}

// SamplePurchase references a customer and product by index.
type SamplePurchase struct {
	Customer int
	Product  int
	Amount   float64
}

// SampleInteraction references a customer by index.
type SampleInteraction struct {
	Customer int
	Type     string
	Notes    string
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Sample returns the demonstration dataset.
func Sample() SampleData {
	return SampleData{
		Agents: []models.Agent{
			{Username: "agent1", Email: "agent1@example.com", Role: "agent"},
		},
		Customers: []models.Customer{
			{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "555-123-4567"},
			{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com", Phone: "555-987-6543"},
			{FirstName: "Bob", LastName: "Johnson", Email: "bob.johnson@example.com", Phone: "555-456-7890"},
		},
		Products: []models.Product{
			{Name: "Premium Account", Description: "Full-featured account with priority support", Category: "Service", Price: 99.99},
			{Name: "Basic Plan", Description: "Entry-level service plan", Category: "Service", Price: 49.99},
			{Name: "Security Package", Description: "Advanced security and threat protection", Category: "Software", Price: 149.99},
			{Name: "Mobile Add-on", Description: "Access from mobile devices", Category: "Add-on", Price: 9.99},
			{Name: "Business Analytics", Description: "Reporting and analytics dashboard", Category: "Service", Price: 199.99},
		},
		Promotions: []models.Promotion{
			{Name: "Summer Discount", Description: "20% off all service plans", DiscountPercentage: 20,
				StartDate: day(2023, time.June, 1), EndDate: day(2023, time.August, 31), ProductCategory: "Service"},
			{Name: "New Customer", Description: "15% off for new customers", DiscountPercentage: 15,
				StartDate: day(2023, time.January, 1), EndDate: day(2023, time.December, 31), ProductCategory: models.AllCategories},
			{Name: "Software Bundle", Description: "25% off software packages", DiscountPercentage: 25,
				StartDate: day(2023, time.May, 1), EndDate: day(2023, time.July, 31), ProductCategory: "Software"},
		},
		Preferences: []SamplePreference{
			{Customer: 0, Category: "Software", Level: 4},
			{Customer: 0, Category: "Service", Level: 3},
			{Customer: 1, Category: "Add-on", Level: 5},
			{Customer: 2, Category: "Service", Level: 4},
		},
		Purchases: []SamplePurchase{
			{Customer: 0, Product: 0, Amount: 99.99},
			{Customer: 1, Product: 3, Amount: 9.99},
			{Customer: 2, Product: 1, Amount: 49.99},
		},
		Interactions: []SampleInteraction{
			{Customer: 0, Type: "call", Notes: "Discussed upgrade options"},
			{Customer: 1, Type: "email", Notes: "Sent product brochure"},
			{Customer: 2, Type: "chat", Notes: "Answered billing question"},
		},
	}
}

// Seeder is a store that can accept the sample dataset.
type Seeder interface {
	Writer
	InsertAgent(ctx context.Context, a models.Agent) (models.Agent, error)
	InsertCustomer(ctx context.Context, c models.Customer) (models.Customer, error)
	InsertProduct(ctx context.Context, p models.Product) (models.Product, error)
	InsertPurchase(ctx context.Context, p models.Purchase) (models.Purchase, error)
	InsertPreference(ctx context.Context, p models.CustomerPreference) (models.CustomerPreference, error)
	InsertPromotion(ctx context.Context, p models.Promotion) (models.Promotion, error)
}

// Seed writes data into s. Every customer is assigned to the first agent.
func Seed(ctx context.Context, s Seeder, data SampleData) error {
	var agentID *int
	for _, a := range data.Agents {
		stored, err := s.InsertAgent(ctx, a)
		if err != nil {
			return fmt.Errorf("seed agent %s: %w", a.Username, err)
		}
		if agentID == nil {
			id := stored.ID
			agentID = &id
		}
	}

	customerIDs := make([]int, len(data.Customers))
	for i, c := range data.Customers {
		if c.AgentID == nil {
			c.AgentID = agentID
		}
		stored, err := s.InsertCustomer(ctx, c)
		if err != nil {
			return fmt.Errorf("seed customer %s: %w", c.FullName(), err)
		}
		customerIDs[i] = stored.ID
	}

	productIDs := make([]int, len(data.Products))
	for i, p := range data.Products {
		stored, err := s.InsertProduct(ctx, p)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		productIDs[i] = stored.ID
	}

	for _, p := range data.Promotions {
		if _, err := s.InsertPromotion(ctx, p); err != nil {
			return fmt.Errorf("seed promotion %s: %w", p.Name, err)
		}
	}

	for _, p := range data.Preferences {
		pref := models.CustomerPreference{CustomerID: customerIDs[p.Customer], Category: p.Category, PreferenceLevel: p.Level}
		if _, err := s.InsertPreference(ctx, pref); err != nil {
			return fmt.Errorf("seed preference: %w", err)
		}
	}

	for _, p := range data.Purchases {
		purchase := models.Purchase{CustomerID: customerIDs[p.Customer], ProductID: productIDs[p.Product], Amount: p.Amount}
		if _, err := s.InsertPurchase(ctx, purchase); err != nil {
			return fmt.Errorf("seed purchase: %w", err)
		}
	}

	for _, in := range data.Interactions {
		interaction := models.Interaction{
			CustomerID:      customerIDs[in.Customer],
			AgentID:         agentID,
			InteractionType: in.Type,
			Notes:           in.Notes,
		}
		if _, err := s.RecordInteraction(ctx, interaction); err != nil {
			return fmt.Errorf("seed interaction: %w", err)
		}
	}
	return nil
}
