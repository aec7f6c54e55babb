// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/salesdesk/internal/models"
)

// Products handles GET /api/v1/products, optionally filtered by ?category=.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var (
		products []models.Product
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = h.engine.ProductsByCategory(r.Context(), category)
	} else {
		products, err = h.reader.Products(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to list products", err)
		return
	}
	respondData(w, http.StatusOK, products, start, false)
}

// Promotions handles GET /api/v1/promotions.
func (h *Handler) Promotions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	promotions, err := h.reader.Promotions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeDatabase, "Failed to list promotions", err)
		return
	}
	respondData(w, http.StatusOK, promotions, start, false)
}
