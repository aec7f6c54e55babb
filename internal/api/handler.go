// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/salesdesk/internal/analytics"
	"github.com/tomtom215/salesdesk/internal/cache"
	"github.com/tomtom215/salesdesk/internal/recommend"
	"github.com/tomtom215/salesdesk/internal/store"
)

// Dependencies are the collaborators a Handler serves from.
type Dependencies struct {
	Reader     store.Reader
	Engine     *recommend.Engine
	Aggregator *analytics.Aggregator
	Recorder   InteractionRecorder

	// Cache is optional; analytics results are not cached when nil.
	Cache cache.Store
}

// Handler holds the HTTP handlers.
type Handler struct {
	reader     store.Reader
	engine     *recommend.Engine
	aggregator *analytics.Aggregator
	recorder   InteractionRecorder
	cache      cache.Store
	startTime  time.Time
}

// NewHandler validates deps and returns a Handler.
func NewHandler(deps Dependencies) (*Handler, error) {
	switch {
	case deps.Reader == nil:
		return nil, errors.New("api: reader is required")
	case deps.Engine == nil:
		return nil, errors.New("api: recommendation engine is required")
	case deps.Aggregator == nil:
		return nil, errors.New("api: analytics aggregator is required")
	case deps.Recorder == nil:
		return nil, errors.New("api: interaction recorder is required")
	}
	return &Handler{
		reader:     deps.Reader,
		engine:     deps.Engine,
		aggregator: deps.Aggregator,
		recorder:   deps.Recorder,
		cache:      deps.Cache,
		startTime:  time.Now(),
	}, nil
}

// customerIDParam parses {customerID}. On failure it writes the 400 response
// and returns false.
func customerIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "customerID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidCustomerID, "Customer ID must be an integer", nil)
		return 0, false
	}
	return id, true
}
