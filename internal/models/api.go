// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package models

import "time"

// APIResponse is the envelope every JSON endpoint returns.
//
//	{
//	  "status": "success",
//	  "data": {...},
//	  "metadata": {"timestamp": "2026-01-02T15:04:05Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and cache information for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error code plus a human-readable message.
//
// Codes in use: VALIDATION_ERROR, INVALID_CUSTOMER_ID, NOT_FOUND,
// DATABASE_ERROR, METHOD_NOT_ALLOWED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// InteractionRequest is the POST /interactions body.
type InteractionRequest struct {
	CustomerID      int    `json:"customer_id" validate:"required,gt=0"`
	AgentID         *int   `json:"agent_id,omitempty" validate:"omitempty,gt=0"`
	InteractionType string `json:"interaction_type" validate:"required,max=50"`
	Notes           string `json:"notes" validate:"max=4000"`
	Recommendations string `json:"recommendations,omitempty" validate:"max=4000"`
}

// InteractionAccepted is returned once an interaction is recorded (201) or
// durably queued for replay (202).
type InteractionAccepted struct {
	Success       bool   `json:"success"`
	InteractionID int    `json:"interaction_id,omitempty"`
	EntryID       string `json:"entry_id,omitempty"`
	Deferred      bool   `json:"deferred,omitempty"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Uptime   string `json:"uptime"`
}
