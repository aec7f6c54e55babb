// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
)

// Customers handles GET /api/v1/customers.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	customers, err := h.reader.Customers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to list customers", err)
		return
	}
	respondData(w, http.StatusOK, customers, start, false)
}

// CustomerProfile handles GET /api/v1/customers/{customerID}: the customer,
// their interactions (newest first), preferences, purchase history and
// current recommendations.
func (h *Handler) CustomerProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	customer, err := h.reader.Customer(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Customer not found", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to load customer", err)
		return
	}

	interactions, err := store.RecentInteractions(ctx, h.reader, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to load interactions", err)
		return
	}
	preferences, err := h.reader.PreferencesByCustomer(ctx, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to load preferences", err)
		return
	}
	purchases, err := store.PurchaseHistory(ctx, h.reader, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to load purchases", err)
		return
	}

	// A failed recommendation run leaves the list empty; the rest of the
	// profile is still useful.
	rec := h.engine.Recommend(ctx, id)

	respondData(w, http.StatusOK, models.CustomerProfile{
		Customer:        customer,
		Interactions:    interactions,
		Preferences:     preferences,
		Purchases:       purchases,
		Recommendations: rec.Items,
	}, start, false)
}

// CustomerPurchases handles GET /api/v1/customers/{customerID}/purchases.
func (h *Handler) CustomerPurchases(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}
	purchases, err := store.PurchaseHistory(r.Context(), h.reader, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to load purchases", err)
		return
	}
	respondData(w, http.StatusOK, purchases, start, false)
}
