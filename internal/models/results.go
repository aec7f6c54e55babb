// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package models

// PromotionDetail is an active promotion attached to a recommendation.
type PromotionDetail struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountedPrice    float64 `json:"discounted_price"`
}

// Recommendation is a scored product candidate for one customer.
type Recommendation struct {
	ProductID   int               `json:"product_id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Score       int               `json:"score"`
	Promotions  []PromotionDetail `json:"promotions"`
}

// CategoryCount is the number of purchases in a product category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryAverage is the mean preference level for a category.
type CategoryAverage struct {
	Category string  `json:"category"`
	Average  float64 `json:"average"`
}

// TypeCount is the number of interactions of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ProductCount is the number of purchases of one product.
type ProductCount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsSummary holds aggregate statistics across the whole CRM.
// Lists are ordered by value descending, ties in first-seen order.
type AnalyticsSummary struct {
	TotalCustomers    int               `json:"total_customers"`
	TotalProductsSold int               `json:"total_products_sold"`
	TotalInteractions int               `json:"total_interactions"`
	PopularCategories []CategoryCount   `json:"popular_categories"`
	PreferenceData    []CategoryAverage `json:"preference_data"`
	InteractionTypes  []TypeCount       `json:"interaction_types"`
	BestSellers       []ProductCount    `json:"best_sellers"`
}

// EmptySummary returns the zero summary with non-nil lists, so it encodes
// as [] rather than null.
func EmptySummary() AnalyticsSummary {
	return AnalyticsSummary{
		PopularCategories: []CategoryCount{},
		PreferenceData:    []CategoryAverage{},
		InteractionTypes:  []TypeCount{},
		BestSellers:       []ProductCount{},
	}
}

// CustomerProfile is everything an agent sees on a customer's page.
type CustomerProfile struct {
	Customer        Customer             `json:"customer"`
	Interactions    []Interaction        `json:"interactions"`
	Preferences     []CustomerPreference `json:"preferences"`
	Purchases       []PurchaseDetail     `json:"purchases"`
	Recommendations []Recommendation     `json:"recommendations"`
}
