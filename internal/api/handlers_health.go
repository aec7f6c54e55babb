// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/models"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles GET /api/v1/health/live. It never touches the store.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, models.HealthStatus{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}, start, false)
}

// HealthReady handles GET /api/v1/health/ready. It answers 503 while the
// store does not respond to a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	health := models.HealthStatus{
		Status:   "ok",
		Database: true,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}
	status := http.StatusOK
	if err := h.reader.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		health.Status = "unavailable"
		health.Database = false
		status = http.StatusServiceUnavailable
	}
	respondData(w, status, health, start, false)
}
