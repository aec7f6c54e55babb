// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

// Package services adapts Salesdesk components to suture.Service.
//
// Every wrapper blocks in Serve until its context is canceled and
// implements fmt.Stringer so supervisor events name the service.
package services
