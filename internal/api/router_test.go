// Salesdesk - Sales Agent Recommendations and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesdesk

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/salesdesk/internal/config"
	"github.com/tomtom215/salesdesk/internal/middleware"
)

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/nope", "")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("unknown route: %d %+v", rec.Code, env.Error)
	}

	rec, env = s.do(t, http.MethodDelete, "/api/v1/customers", "")
	if rec.Code != http.StatusMethodNotAllowed || env.Error == nil || env.Error.Code != CodeMethodNotAllowed {
		t.Errorf("wrong method: %d %+v", rec.Code, env.Error)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected X-Request-ID on response")
	}
}

func TestRouterRateLimit(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, withRateLimit(2))

	for i := 0; i < 2; i++ {
		if rec, _ := s.do(t, http.MethodGet, "/api/v1/promotions", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: %d", i, rec.Code)
		}
	}
	rec, env := s.do(t, http.MethodGet, "/api/v1/promotions", "")
	if rec.Code != http.StatusTooManyRequests || env.Error == nil || env.Error.Code != CodeRateLimited {
		t.Errorf("third request: %d %+v", rec.Code, env.Error)
	}

	// Health checks are not limited.
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health while limited: %d", rec.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, func(_ *Dependencies, sec *config.SecurityConfig) {
		sec.CORSOrigins = []string{"https://crm.example.com"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/customers", nil)
	req.Header.Set("Origin", "https://crm.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://crm.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRouterServesMetrics(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/api/v1/customers", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/v1/customers") {
		t.Error("expected route pattern label in metrics output")
	}
}
