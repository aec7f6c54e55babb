// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/salesdesk/internal/logging"
	"github.com/tomtom215/salesdesk/internal/models"
	"github.com/tomtom215/salesdesk/internal/store"
	"github.com/tomtom215/salesdesk/internal/validation"
)

// maxInteractionBody limits POST /interactions payloads.
const maxInteractionBody = 64 << 10

// CreateInteraction handles POST /api/v1/interactions.
//
// 201 with interaction_id when the row was stored, 202 with entry_id when
// the store was unavailable and the interaction waits in the WAL.
func (h *Handler) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, maxInteractionBody)
	var req models.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Request body must be a JSON interaction", nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return
	}

	// An unreachable store does not block the write; the recorder defers it.
	if _, err := h.reader.Customer(ctx, req.CustomerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, CodeNotFound, "Customer not found", nil)
			return
		}
		logging.Ctx(ctx).Warn().Err(err).Int("customer_id", req.CustomerID).Msg("Customer check skipped")
	}

	agentID := models.DefaultAgentID
	if req.AgentID != nil {
		agentID = *req.AgentID
	}

	out, err := h.recorder.Record(ctx, models.Interaction{
		CustomerID:      req.CustomerID,
		AgentID:         &agentID,
		InteractionType: req.InteractionType,
		Notes:           req.Notes,
		Recommendations: req.Recommendations,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeRecordFailed, "Failed to record interaction", err)
		return
	}

	if out.Deferred {
		respondData(w, http.StatusAccepted, models.InteractionAccepted{
			Success:  true,
			EntryID:  out.EntryID,
			Deferred: true,
		}, start, false)
		return
	}
	respondData(w, http.StatusCreated, models.InteractionAccepted{
		Success:       true,
		InteractionID: out.Interaction.ID,
		EntryID:       out.EntryID,
	}, start, false)
}
