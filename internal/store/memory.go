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
	"sync"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
)

// Memory is an in-memory ReadWriter. Records added with a zero ID get the
// next free ID for their collection; zero timestamps are set to now.
type Memory struct {
	mu sync.RWMutex

	agents       []models.Agent
	customers    []models.Customer
	products     []models.Product
	purchases    []models.Purchase
	interactions []models.Interaction
	preferences  []models.CustomerPreference
	promotions   []models.Promotion

	failErr error
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// FailWith makes every subsequent read and write return err. Pass nil to
// restore normal behaviour.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func nextID[T any](items []T, id func(T) int) int {
	maxID := 0
	for _, it := range items {
		maxID = max(maxID, id(it))
	}
	return maxID + 1
}

func insertSorted[T any](items []T, item T, id func(T) int) []T {
	items = append(items, item)
	slices.SortStableFunc(items, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return items
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (m *Memory) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return m.now().UTC()
	}
	return t
}

// AddAgent stores an agent.
func (m *Memory) AddAgent(a models.Agent) models.Agent {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := func(a models.Agent) int { return a.ID }
	if a.ID == 0 {
		a.ID = nextID(m.agents, id)
	}
	if a.Role == "" {
		a.Role = "agent"
	}
	a.CreatedAt = m.stamp(a.CreatedAt)
	m.agents = insertSorted(m.agents, a, id)
	return a
}

// AddCustomer stores a customer.
func (m *Memory) AddCustomer(c models.Customer) models.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := func(c models.Customer) int { return c.ID }
	if c.ID == 0 {
		c.ID = nextID(m.customers, id)
	}
	c.CreatedAt = m.stamp(c.CreatedAt)
	m.customers = insertSorted(m.customers, c, id)
	return c
}

// AddProduct stores a product.
func (m *Memory) AddProduct(p models.Product) models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := func(p models.Product) int { return p.ID }
	if p.ID == 0 {
		p.ID = nextID(m.products, id)
	}
	p.CreatedAt = m.stamp(p.CreatedAt)
	m.products = insertSorted(m.products, p, id)
	return p
}

// AddPurchase stores a purchase. The product must already exist.
func (m *Memory) AddPurchase(p models.Purchase) (models.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.ContainsFunc(m.products, func(pr models.Product) bool { return pr.ID == p.ProductID }) {
		return models.Purchase{}, fmt.Errorf("purchase references product %d: %w", p.ProductID, ErrNotFound)
	}
	id := func(p models.Purchase) int { return p.ID }
	if p.ID == 0 {
		p.ID = nextID(m.purchases, id)
	}
	p.PurchaseDate = m.stamp(p.PurchaseDate)
	m.purchases = insertSorted(m.purchases, p, id)
	return p, nil
}

// AddPreference stores a customer preference. Duplicates are kept.
func (m *Memory) AddPreference(p models.CustomerPreference) models.CustomerPreference {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := func(p models.CustomerPreference) int { return p.ID }
	if p.ID == 0 {
		p.ID = nextID(m.preferences, id)
	}
	p.CreatedAt = m.stamp(p.CreatedAt)
	m.preferences = insertSorted(m.preferences, p, id)
	return p
}

// AddPromotion stores a promotion.
func (m *Memory) AddPromotion(p models.Promotion) models.Promotion {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := func(p models.Promotion) int { return p.ID }
	if p.ID == 0 {
		p.ID = nextID(m.promotions, id)
	}
	m.promotions = insertSorted(m.promotions, p, id)
	return p
}

// RecordInteraction appends an interaction.
func (m *Memory) RecordInteraction(_ context.Context, in models.Interaction) (models.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return models.Interaction{}, m.failErr
	}
	id := func(i models.Interaction) int { return i.ID }
	if in.ID == 0 {
		in.ID = nextID(m.interactions, id)
	}
	in.CreatedAt = m.stamp(in.CreatedAt)
	m.interactions = insertSorted(m.interactions, in, id)
	return in, nil
}

// Customer returns one customer or ErrNotFound.
func (m *Memory) Customer(_ context.Context, id int) (models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return models.Customer{}, m.failErr
	}
	for _, c := range m.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, fmt.Errorf("customer %d: %w", id, ErrNotFound)
}

// Customers returns all customers.
func (m *Memory) Customers(_ context.Context) ([]models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.customers), nil
}

// Agents returns all agents.
func (m *Memory) Agents(_ context.Context) ([]models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.agents), nil
}

// Products returns all products.
func (m *Memory) Products(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.products), nil
}

// ProductsByCategory returns products whose category equals category.
func (m *Memory) ProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return filter(m.products, func(p models.Product) bool { return p.Category == category }), nil
}

// Purchases returns all purchases.
func (m *Memory) Purchases(_ context.Context) ([]models.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.purchases), nil
}

// PurchasesByCustomer returns one customer's purchases.
func (m *Memory) PurchasesByCustomer(_ context.Context, customerID int) ([]models.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return filter(m.purchases, func(p models.Purchase) bool { return p.CustomerID == customerID }), nil
}

// Interactions returns all interactions.
func (m *Memory) Interactions(_ context.Context) ([]models.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.interactions), nil
}

// InteractionsByCustomer returns one customer's interactions.
func (m *Memory) InteractionsByCustomer(_ context.Context, customerID int) ([]models.Interaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return filter(m.interactions, func(i models.Interaction) bool { return i.CustomerID == customerID }), nil
}

// Preferences returns all customer preferences.
func (m *Memory) Preferences(_ context.Context) ([]models.CustomerPreference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.preferences), nil
}

// PreferencesByCustomer returns one customer's preferences.
func (m *Memory) PreferencesByCustomer(_ context.Context, customerID int) ([]models.CustomerPreference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return filter(m.preferences, func(p models.CustomerPreference) bool { return p.CustomerID == customerID }), nil
}

// Promotions returns all promotions.
func (m *Memory) Promotions(_ context.Context) ([]models.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return slices.Clone(m.promotions), nil
}

// ActivePromotions returns promotions whose window contains at.
func (m *Memory) ActivePromotions(_ context.Context, at time.Time) ([]models.Promotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return filter(m.promotions, func(p models.Promotion) bool { return p.ActiveAt(at) }), nil
}

// Ping reports the injected failure, if any.
func (m *Memory) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failErr
}

// The Insert methods let Memory act as a Seeder.

func (m *Memory) InsertAgent(_ context.Context, a models.Agent) (models.Agent, error) {
	return m.AddAgent(a), nil
}

func (m *Memory) InsertCustomer(_ context.Context, c models.Customer) (models.Customer, error) {
	return m.AddCustomer(c), nil
}

func (m *Memory) InsertProduct(_ context.Context, p models.Product) (models.Product, error) {
	return m.AddProduct(p), nil
}

func (m *Memory) InsertPurchase(_ context.Context, p models.Purchase) (models.Purchase, error) {
	return m.AddPurchase(p)
}

func (m *Memory) InsertPreference(_ context.Context, p models.CustomerPreference) (models.CustomerPreference, error) {
	return m.AddPreference(p), nil
}

func (m *Memory) InsertPromotion(_ context.Context, p models.Promotion) (models.Promotion, error) {
	return m.AddPromotion(p), nil
}

var _ Seeder = (*Memory)(nil)
