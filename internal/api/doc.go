// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

/*
Package api exposes the CRM over HTTP using the chi router.

Every endpoint answers with the models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 3}}
	{"status": "error", "data": null, "error": {"code": "NOT_FOUND", "message": "..."}}

Routes (all under /api/v1 except /metrics):

	GET  /health/live
	GET  /health/ready
	GET  /customers
	GET  /customers/{customerID}
	GET  /customers/{customerID}/purchases
	GET  /recommendations/{customerID}
	GET  /analytics
	GET  /products?category=
	GET  /promotions
	POST /interactions
	GET  /metrics

The recommendation and analytics endpoints always answer 200 for a
well-formed request: a data-access failure is reported in the result's
status field, not as an HTTP error. Analytics results are cached when a
cache.Store is configured and the cached entry is dropped whenever a new
interaction reaches the store.

Interactions are written through an InteractionRecorder. With the WAL
enabled a store failure does not lose the interaction: it is kept in the
log, replayed later, and the request is answered with 202 and the WAL
entry ID.
*/
package api
