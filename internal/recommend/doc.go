// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

/*
Package recommend scores products for a single customer.

The scoring is a deterministic single pass over the products the customer
has not bought yet:

	score = BaseScore
	      + preference level for the product's category (if any)
	      + PromotionBoost for every active promotion on the category or on "All"

Products scoring below MinScore are dropped, the rest are stably sorted by
score (ties keep product ID order) and cut to MaxResults. Each kept item
lists the active promotions that apply to it with the discounted price
rounded to cents.

Preferences are folded per category before scoring. A customer may hold
several rows for one category; PolicyLastWriteWins keeps the row with the
highest ID and PolicyMax keeps the highest level.

# Failure handling

Recommend never returns an error. A missing customer yields StatusEmpty,
a failing store yields StatusFailed with no items and a Reason, and the
failure is logged. Callers that only look at Items therefore see an empty
list in both cases.

# Usage

	engine, err := recommend.NewEngine(reader, recommend.DefaultConfig(), logger)
	if err != nil {
	    return err
	}
	res := engine.Recommend(ctx, customerID)
	if res.Status == recommend.StatusFailed {
	    // degrade
	}
*/
package recommend
