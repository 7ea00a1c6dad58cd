// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/gigmarket/internal/metrics"
)

func TestPrometheusLabelsByRouteClass(t *testing.T) {
	routes := DefaultRoutes(100)

	tests := []struct {
		name   string
		path   string
		status int
		class  string
	}{
		{"payments", "/api/payments/intent", http.StatusCreated, "payments"},
		{"admin sub-route", "/api/admin/security/alerts", http.StatusOK, "admin"},
		{"generic api", "/api/jobs/123", http.StatusNotFound, "api"},
		{"page", "/dashboard", http.StatusOK, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Prometheus(routes)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			labels := []string{http.MethodGet, tt.class, strconv.Itoa(tt.status)}
			before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(labels...))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(labels...))
			if after-before != 1 {
				t.Errorf("counter %v delta = %v, want 1", labels, after-before)
			}
		})
	}
}

func TestPrometheusDefaultStatus(t *testing.T) {
	routes := DefaultRoutes(100)
	handler := Prometheus(routes)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	labels := []string{http.MethodPost, "api", "200"}
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(labels...))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/jobs", nil))

	if got := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues(labels...)) - before; got != 1 {
		t.Errorf("implicit 200 not recorded, delta = %v", got)
	}
}
