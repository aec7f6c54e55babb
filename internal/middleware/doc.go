// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package middleware holds HTTP middleware shared by the API router:
// request ID propagation, Prometheus request metrics and access logging.
// Every middleware has the func(http.Handler) http.Handler shape used by chi.
package middleware
