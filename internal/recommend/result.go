// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package recommend

import "github.com/tomtom215/salesdesk/internal/models"

// Status tells a caller whether an empty list means "nothing to suggest"
// or "could not compute".
type Status string

const (
	StatusOK     Status = "ok"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Result is the outcome of one Recommend call.
type Result struct {
	CustomerID int                     `json:"customer_id"`
	Status     Status                  `json:"status"`
	Items      []models.Recommendation `json:"items"`
	Reason     string                  `json:"reason,omitempty"`
}

func okOrEmpty(customerID int, items []models.Recommendation) Result {
	if len(items) == 0 {
		return Result{CustomerID: customerID, Status: StatusEmpty, Items: []models.Recommendation{}}
	}
	return Result{CustomerID: customerID, Status: StatusOK, Items: items}
}

func failed(customerID int, reason string) Result {
	return Result{CustomerID: customerID, Status: StatusFailed, Items: []models.Recommendation{}, Reason: reason}
}
