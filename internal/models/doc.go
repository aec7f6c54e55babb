// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

/*
Package models defines the data structures shared by Salesdesk packages.

Record types mirror the CRM tables (customers, agents, products, purchases,
interactions, customer preferences and promotions). Result types describe
what the recommendation engine and the analytics aggregator hand back to
the API layer, and api.go holds the JSON envelope every endpoint returns.

Every collection a store returns is ordered by ascending ID. Code that
folds or groups records relies on that order: "first seen" always means
"lowest ID".

JSON field names keep the snake_case names the CRM front end already
consumes (product_id, discounted_price, total_products_sold, ...).
*/
package models
