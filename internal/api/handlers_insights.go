// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/salesdesk/internal/analytics"
	"github.com/tomtom215/salesdesk/internal/logging"
)

// Recommendations handles GET /api/v1/recommendations/{customerID}.
// Unknown customers and store failures still answer 200; the outcome is in
// the result status.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := customerIDParam(w, r)
	if !ok {
		return
	}
	respondData(w, http.StatusOK, h.engine.Recommend(r.Context(), id), start, false)
}

// Analytics handles GET /api/v1/analytics. Only successful summaries are
// cached so a transient failure is not served for a whole TTL.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logging.Ctx(ctx)

	if h.cache != nil {
		var cached analytics.Result
		hit, err := h.cache.Get(ctx, analyticsCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("Analytics cache lookup failed")
		}
		if hit {
			respondData(w, http.StatusOK, cached, start, true)
			return
		}
	}

	res := h.aggregator.Aggregate(ctx)
	if h.cache != nil && res.Status == analytics.StatusOK {
		if err := h.cache.Set(ctx, analyticsCacheKey, res); err != nil {
			log.Warn().Err(err).Msg("Failed to cache analytics summary")
		}
	}
	respondData(w, http.StatusOK, res, start, false)
}
