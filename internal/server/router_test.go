// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gigmarket/internal/config"
	"github.com/tomtom215/gigmarket/internal/dbopt"
	"github.com/tomtom215/gigmarket/internal/monitor"
	"github.com/tomtom215/gigmarket/internal/security"
	"github.com/tomtom215/gigmarket/internal/session"
	"github.com/tomtom215/gigmarket/internal/store"
)

const (
	testSecret = "router-test-secret"
	testAPIKey = "whk_live_0123456789abcdef"
	jobID      = "9b2f6d8e-3c41-4f1a-9e55-0a7c2b1d4e6f"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 3000, Host: "127.0.0.1", Timeout: 30 * time.Second, Environment: "test"},
		Store:    config.StoreConfig{OpTimeout: time.Second},
		Cache:    config.CacheConfig{DefaultTTL: time.Hour, SweepInterval: time.Minute},
		Security: config.SecurityConfig{
			APIRatePerMinute:   100,
			ValidAPIKeys:       []string{testAPIKey},
			CORSOrigins:        []string{"https://app.gigmarket.test"},
			SweepInterval:      time.Hour,
			PagerRatePerMinute: 6,
		},
		Session: config.SessionConfig{JWTSecret: testSecret, TTL: time.Hour, CookieName: "session"},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

type fakeRepo struct {
	listCalls atomic.Int32
}

func (f *fakeRepo) UserProfile(_ context.Context, id string) (dbopt.UserProfile, error) {
	return dbopt.UserProfile{ID: id, Name: "Ada", Role: "FREELANCER", Rating: 4.9}, nil
}

func (f *fakeRepo) JobDetail(_ context.Context, id string) (dbopt.Job, error) {
	return dbopt.Job{ID: id, Title: "Build a landing page", Status: dbopt.JobStatusOpen, Budget: 800}, nil
}

func (f *fakeRepo) ListJobs(_ context.Context, flt dbopt.JobFilter) (dbopt.JobPage, error) {
	f.listCalls.Add(1)
	p := flt.Page.Normalize()
	return dbopt.JobPage{
		Jobs:  []dbopt.Job{{ID: jobID, Title: "Build a landing page", Category: flt.Category, Status: dbopt.JobStatusOpen}},
		Total: 1,
		Page:  p.Page,
		Limit: p.Limit,
	}, nil
}

func (f *fakeRepo) SearchFreelancers(context.Context, dbopt.FreelancerQuery) ([]dbopt.UserProfile, error) {
	return []dbopt.UserProfile{{ID: "f-1", Name: "Ada", Rating: 4.9}}, nil
}

func (f *fakeRepo) TrendingJobs(_ context.Context, limit int) ([]dbopt.Job, error) {
	return []dbopt.Job{{ID: jobID, Proposals: 12}}, nil
}

func (f *fakeRepo) FeaturedFreelancers(_ context.Context, limit int) ([]dbopt.UserProfile, error) {
	return []dbopt.UserProfile{{ID: "f-1", Featured: true}}, nil
}

type fixture struct {
	app     *App
	handler http.Handler
	repo    *fakeRepo
}

func newFixture(t *testing.T, withRepo bool) *fixture {
	t.Helper()
	f := &fixture{}
	var repo dbopt.Repository
	if withRepo {
		f.repo = &fakeRepo{}
		repo = f.repo
	}
	app, err := NewApp(testConfig(), store.NewMemoryStore(), repo)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	f.app = app
	f.handler = app.Router()
	return f
}

func (f *fixture) token(t *testing.T, role session.Role) string {
	t.Helper()
	tok, err := f.app.Sessions.Issue(session.User{ID: "user-" + strings.ToLower(string(role)) + "-42", Role: role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request, token string, csrf bool) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	if csrf {
		req.Header.Set(security.HeaderCSRFToken, "tok-1")
		req.Header.Set(security.HeaderSessionToken, "tok-1")
	}
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var h HealthStatus
	decode(t, rec, &h)
	if h.Status != "healthy" || !h.StoreOK || h.Store != "memory" || h.Database {
		t.Errorf("health = %+v", h)
	}
	// Unclassified paths still get the security headers.
	if rec.Header().Get("X-Frame-Options") == "" {
		t.Error("security headers missing on /healthz")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)
	f.do(httptest.NewRequest(http.MethodGet, "/api/csrf", nil))

	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gigmarket_") {
		t.Error("expected gigmarket metrics in exposition")
	}
}

func TestCSRFToken(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if len(body["csrfToken"]) != 64 {
		t.Errorf("csrfToken = %q", body["csrfToken"])
	}
	if body["headerName"] != security.HeaderCSRFToken || body["echoHeader"] != security.HeaderSessionToken {
		t.Errorf("header names = %v", body)
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("Cache-Control not no-store")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "100" {
		t.Errorf("X-RateLimit-Limit = %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	decode(t, rec, &body)
	if body["requestId"] != rec.Header().Get("X-Request-ID") {
		t.Errorf("requestId %v != header %q", body["requestId"], rec.Header().Get("X-Request-ID"))
	}

	rec = f.do(httptest.NewRequest(http.MethodDelete, "/api/csrf", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /api/csrf status = %d", rec.Code)
	}
}

func TestAdminGate(t *testing.T) {
	f := newFixture(t, false)
	tests := []struct {
		name string
		role session.Role
		want int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"freelancer", session.RoleFreelancer, http.StatusForbidden},
		{"employer", session.RoleEmployer, http.StatusForbidden},
		{"admin", session.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/security/metrics", nil)
			if tt.role != "" {
				req = authed(req, f.token(t, tt.role), false)
			}
			rec := f.do(req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSecurityAlertsQuery(t *testing.T) {
	f := newFixture(t, false)
	admin := f.token(t, session.RoleAdmin)

	// One blocked probe to populate the alert lists.
	probe := httptest.NewRequest(http.MethodGet, "/api/jobs?q=1+UNION+SELECT+password", nil)
	if rec := f.do(probe); rec.Code != http.StatusForbidden {
		t.Fatalf("probe status = %d", rec.Code)
	}

	tests := []struct {
		name     string
		query    string
		want     int
		minCount int
	}{
		{"all", "", http.StatusOK, 1},
		{"high", "?severity=high", http.StatusOK, 1},
		{"critical empty", "?severity=critical", http.StatusOK, 0},
		{"bad severity", "?severity=urgent", http.StatusBadRequest, 0},
		{"bad limit", "?limit=5000", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodGet, "/api/admin/security/alerts"+tt.query, nil), admin, false)
			rec := f.do(req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want != http.StatusOK {
				return
			}
			var body struct {
				Alerts []monitor.Alert `json:"alerts"`
			}
			decode(t, rec, &body)
			if len(body.Alerts) < tt.minCount {
				t.Errorf("alerts = %d, want >= %d", len(body.Alerts), tt.minCount)
			}
		})
	}
}

func TestIPReputation(t *testing.T) {
	f := newFixture(t, false)
	admin := f.token(t, session.RoleAdmin)

	rec := f.do(authed(httptest.NewRequest(http.MethodGet, "/api/admin/security/reputation/203.0.113.9", nil), admin, false))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var rep monitor.Reputation
	decode(t, rec, &rep)
	if rep.Score != 100 {
		t.Errorf("fresh score = %d, want 100", rep.Score)
	}

	rec = f.do(authed(httptest.NewRequest(http.MethodGet, "/api/admin/security/reputation/not-an-ip", nil), admin, false))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid ip status = %d", rec.Code)
	}
}

func TestPaymentIntent(t *testing.T) {
	f := newFixture(t, false)
	tok := f.token(t, session.RoleEmployer)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return f.do(authed(req, tok, true))
	}

	rec := post(`{"amount": 250, "currency": "usd", "jobId": "` + jobID + `"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var intent PaymentIntent
	decode(t, rec, &intent)
	if intent.Currency != "USD" || intent.Amount != 250 || intent.Status != "requires_confirmation" || intent.IntentID == "" {
		t.Errorf("intent = %+v", intent)
	}
	if intent.UserID != "user-employer-42" {
		t.Errorf("userId = %q", intent.UserID)
	}

	rec = post(`{"amount": 0, "currency": "dollars"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid body status = %d", rec.Code)
	}
	var errBody struct {
		Details []map[string]any `json:"details"`
	}
	decode(t, rec, &errBody)
	if len(errBody.Details) != 3 {
		t.Errorf("field errors = %d, want 3 (%s)", len(errBody.Details), rec.Body.String())
	}

	rec = post(`{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d", rec.Code)
	}

	// Payment budget is 5; three used above, two left, then 429.
	for i := 0; i < 2; i++ {
		post(`{}`)
	}
	rec = post(`{"amount": 250, "currency": "usd", "jobId": "` + jobID + `"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("6th request status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
}

func TestPaymentIntentOptionalFields(t *testing.T) {
	f := newFixture(t, false)
	tok := f.token(t, session.RoleEmployer)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return f.do(authed(req, tok, true))
	}

	rec := post(`{"amount": 90, "currency": "eur", "jobId": "` + jobID + `",
		"description": "  Logo <b>redesign</b> deposit ",
		"receiptEmail": "Client@Example.com",
		"returnUrl": "https://gigmarket.test/jobs/done"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var intent PaymentIntent
	decode(t, rec, &intent)
	if intent.Description != "Logo redesign deposit" {
		t.Errorf("description = %q", intent.Description)
	}
	if intent.ReceiptEmail != "client@example.com" {
		t.Errorf("receiptEmail = %q", intent.ReceiptEmail)
	}
	if intent.ReturnURL != "https://gigmarket.test/jobs/done" {
		t.Errorf("returnUrl = %q", intent.ReturnURL)
	}

	rec = post(`{"amount": 90, "currency": "eur", "jobId": "` + jobID + `",
		"receiptEmail": "not-an-email", "returnUrl": "ftp://gigmarket.test/x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var errBody struct {
		Details []map[string]any `json:"details"`
	}
	decode(t, rec, &errBody)
	if len(errBody.Details) != 2 {
		t.Errorf("field errors = %d, want 2 (%s)", len(errBody.Details), rec.Body.String())
	}
}

func TestPaymentIntentAccountLimit(t *testing.T) {
	f := newFixture(t, false)
	tok := f.token(t, session.RoleEmployer)
	body := `{"amount": 250, "currency": "usd", "jobId": "` + jobID + `"}`

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", ip)
		return f.do(authed(req, tok, true))
	}

	// Two addresses each stay within the per-IP budget of 5.
	for _, ip := range []string{"198.51.100.10", "198.51.100.11"} {
		for i := 0; i < 5; i++ {
			if rec := post(ip); rec.Code != http.StatusCreated {
				t.Fatalf("%s request %d status = %d (%s)", ip, i+1, rec.Code, rec.Body.String())
			}
		}
	}

	rec := post("198.51.100.12")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("11th request status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "this account") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}

	other := f.token(t, session.RoleFreelancer)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "198.51.100.13")
	if rec := f.do(authed(req, other, true)); rec.Code != http.StatusCreated {
		t.Errorf("another account status = %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPaymentIntentRequiresCSRF(t *testing.T) {
	f := newFixture(t, false)
	req := httptest.NewRequest(http.MethodPost, "/api/payments/intent", strings.NewReader(`{}`))
	rec := f.do(authed(req, f.token(t, session.RoleEmployer), false))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestPaymentWebhook(t *testing.T) {
	f := newFixture(t, false)
	tests := []struct {
		name string
		key  string
		body string
		want int
	}{
		{"valid", testAPIKey, `{"type":"payment_intent.succeeded","data":{"id":"pi_1"}}`, http.StatusAccepted},
		{"missing type", testAPIKey, `{"data":{}}`, http.StatusBadRequest},
		{"wrong key", "whk_live_guess", `{"type":"x"}`, http.StatusUnauthorized},
		{"no key", "", `{"type":"x"}`, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(tt.body))
			if tt.key != "" {
				req.Header.Set(security.HeaderAPIKey, tt.key)
			}
			rec := f.do(req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	alerts, err := f.app.Monitor.RecentAlerts(context.Background(), monitor.SeverityHigh, 10)
	if err != nil {
		t.Fatalf("RecentAlerts: %v", err)
	}
	invalid := 0
	for _, a := range alerts {
		if a.Type == monitor.AlertInvalidToken {
			invalid++
		}
		if a.Type == monitor.AlertAuthFailure {
			t.Errorf("webhook rejection also recorded auth_failure: %+v", a)
		}
	}
	if invalid != 2 {
		t.Errorf("invalid_token alerts = %d, want 2", invalid)
	}
}

func TestMarketplaceWithoutDatabase(t *testing.T) {
	f := newFixture(t, false)
	for _, path := range []string{"/api/jobs", "/api/jobs/trending", "/api/jobs/" + jobID, "/api/freelancers/featured"} {
		rec := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestMarketplaceReads(t *testing.T) {
	f := newFixture(t, true)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"list", "/api/jobs?category=design&page=2&limit=10", http.StatusOK},
		{"list bad status", "/api/jobs?status=PENDING", http.StatusBadRequest},
		{"list bad budget", "/api/jobs?minBudget=lots", http.StatusBadRequest},
		{"detail", "/api/jobs/" + jobID, http.StatusOK},
		{"detail bad id", "/api/jobs/42", http.StatusBadRequest},
		{"trending", "/api/jobs/trending?limit=5", http.StatusOK},
		{"trending bad limit", "/api/jobs/trending?limit=500", http.StatusBadRequest},
		{"search", "/api/freelancers/search?q=react&minRating=4.5", http.StatusOK},
		{"search bad rating", "/api/freelancers/search?minRating=7", http.StatusBadRequest},
		{"featured", "/api/freelancers/featured", http.StatusOK},
		{"profile", "/api/users/" + jobID, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestListJobsIsCached(t *testing.T) {
	f := newFixture(t, true)
	for i := 0; i < 3; i++ {
		rec := f.do(httptest.NewRequest(http.MethodGet, "/api/jobs?category=writing", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var page dbopt.JobPage
		decode(t, rec, &page)
		if page.Total != 1 || page.Page != 1 || page.Limit != dbopt.DefaultPageSize {
			t.Errorf("page = %+v", page)
		}
	}
	if n := f.repo.listCalls.Load(); n != 1 {
		t.Errorf("repository called %d times, want 1", n)
	}
	if stats := f.app.Cache.Stats(); stats.Hits < 2 {
		t.Errorf("cache hits = %d, want >= 2", stats.Hits)
	}
}

func TestInvalidateCache(t *testing.T) {
	f := newFixture(t, true)
	admin := f.token(t, session.RoleAdmin)

	f.do(httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	invalidate := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/cache/invalidate", strings.NewReader(body))
		return f.do(authed(req, admin, true))
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"listings", `{"scope":"listings"}`, http.StatusOK},
		{"user", `{"scope":"user","id":"u-1"}`, http.StatusOK},
		{"user without id", `{"scope":"user"}`, http.StatusBadRequest},
		{"namespaced pattern", `{"scope":"pattern","pattern":"job:list:*"}`, http.StatusOK},
		{"foreign pattern", `{"scope":"pattern","pattern":"ratelimit:*"}`, http.StatusBadRequest},
		{"unknown scope", `{"scope":"everything"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := invalidate(tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	// Listing was invalidated, so the next read goes to the repository.
	f.do(httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	if n := f.repo.listCalls.Load(); n != 2 {
		t.Errorf("repository calls = %d, want 2", n)
	}
}

func TestPerformanceEndpoint(t *testing.T) {
	f := newFixture(t, false)
	f.do(httptest.NewRequest(http.MethodGet, "/api/csrf", nil))

	rec := f.do(authed(httptest.NewRequest(http.MethodGet, "/api/admin/performance", nil), f.token(t, session.RoleAdmin), false))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var body map[string]any
	decode(t, rec, &body)
	for _, k := range []string{"summary", "endpoints", "recommendations", "samples", "cache"} {
		if _, ok := body[k]; !ok {
			t.Errorf("key %q missing", k)
		}
	}
}

func TestNewAppWithoutSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Session.JWTSecret = ""
	app, err := NewApp(cfg, store.NewMemoryStore(), nil)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	if app.Sessions != nil {
		t.Error("Sessions should be nil without a secret")
	}
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/performance", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestPaymentWebhookLockout(t *testing.T) {
	f := newFixture(t, false)
	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(`{"type":"charge.succeeded"}`))
		req.Header.Set(security.HeaderAPIKey, key)
		return f.do(req)
	}

	for i := 0; i < webhookMaxFailures; i++ {
		if rec := send("whk_live_guess"); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d", i+1, rec.Code)
		}
	}

	// Locked out, even with the right key.
	rec := send(testAPIKey)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("locked status = %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing on lockout")
	}

	alerts, err := f.app.Monitor.RecentAlerts(context.Background(), monitor.SeverityHigh, 50)
	if err != nil {
		t.Fatalf("RecentAlerts: %v", err)
	}
	var bruteForce int
	for _, a := range alerts {
		if a.Type == monitor.AlertBruteForce {
			bruteForce++
		}
	}
	if bruteForce != 1 {
		t.Errorf("brute force alerts = %d, want 1", bruteForce)
	}
}

func TestPaymentWebhookClearsFailures(t *testing.T) {
	f := newFixture(t, false)
	send := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", strings.NewReader(`{"type":"charge.succeeded"}`))
		req.Header.Set(security.HeaderAPIKey, key)
		return f.do(req).Code
	}

	for i := 0; i < webhookMaxFailures-1; i++ {
		send("whk_live_guess")
	}
	if code := send(testAPIKey); code != http.StatusAccepted {
		t.Fatalf("valid key status = %d", code)
	}
	// The success reset the counter, so one more failure does not lock out.
	send("whk_live_guess")
	if code := send(testAPIKey); code != http.StatusAccepted {
		t.Errorf("after reset status = %d", code)
	}
}
