// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

func TestInspector_Inspect(t *testing.T) {
	insp := NewInspector()

	tests := []struct {
		name     string
		target   string
		ua       string
		wantCat  Category
		rejected bool
	}{
		{name: "clean request", target: "/api/jobs?page=2&category=design", ua: browserUA},
		{name: "union select encoded", target: "/api/jobs?q=1%20UNION%20SELECT%20password", ua: browserUA, wantCat: CategorySQLInjection, rejected: true},
		{name: "union select plus", target: "/api/jobs?q=1+union+select+1", ua: browserUA, wantCat: CategorySQLInjection, rejected: true},
		{name: "tautology", target: "/api/users?id=%27%20or%20%271%27%3D%271", ua: browserUA, wantCat: CategorySQLInjection, rejected: true},
		{name: "path traversal", target: "/api/files/../../etc/passwd", ua: browserUA, wantCat: CategoryPathTraversal, rejected: true},
		{name: "encoded traversal", target: "/api/files/%2e%2e/%2e%2e/secret", ua: browserUA, wantCat: CategoryPathTraversal, rejected: true},
		{name: "xss", target: "/api/search?q=%3Cscript%3Ealert(1)%3C/script%3E", ua: browserUA, wantCat: CategoryXSS, rejected: true},
		{name: "javascript scheme", target: "/redirect?to=javascript:alert(1)", ua: browserUA, wantCat: CategoryXSS, rejected: true},
		{name: "union select beside bad escape", target: "/api/jobs?q=UNION%20SELECT&x=%zz", ua: browserUA, wantCat: CategorySQLInjection, rejected: true},
		{name: "xss beside trailing percent", target: "/api/search?q=%3Cscript%3Ealert(1)%3C/script%3E&x=%", ua: browserUA, wantCat: CategoryXSS, rejected: true},
		{name: "quoted comment", target: "/api/users?name=admin%27--", ua: browserUA, wantCat: CategorySQLInjection, rejected: true},
		{name: "inline comment", target: "/api/jobs?q=1/**/union/**/select", ua: browserUA, wantCat: CategorySQLInjection, rejected: true},
		{name: "double dash slug", target: "/api/freelancers/full--stack?q=c--", ua: browserUA},
		{name: "bad escape alone", target: "/api/jobs?q=100%&x=%zz", ua: browserUA},
		{name: "scanner user agent", target: "/api/jobs", ua: "sqlmap/1.7.2#stable", wantCat: CategoryBot, rejected: true},
		{name: "curl", target: "/api/jobs", ua: "curl/8.4.0", wantCat: CategoryBot, rejected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Header.Set("User-Agent", tt.ua)

			rej := insp.Inspect(req)
			if !tt.rejected {
				if rej != nil {
					t.Fatalf("unexpected rejection %+v", rej)
				}
				return
			}
			if rej == nil {
				t.Fatal("expected rejection")
			}
			if rej.Status != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rej.Status)
			}
			if rej.Category != tt.wantCat {
				t.Errorf("category = %s, want %s", rej.Category, tt.wantCat)
			}
		})
	}
}

func TestUnescapeLenient(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/plain", "/plain"},
		{"a%20b+c", "a b c"},
		{"%3Cx%3e", "<x>"},
		{"q=%zz&r=%41", "q=%zz&r=A"},
		{"tail%", "tail%"},
		{"tail%4", "tail%4"},
	}
	for _, tt := range tests {
		if got := unescapeLenient(tt.in); got != tt.want {
			t.Errorf("unescapeLenient(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRejection_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Rejection{Status: http.StatusForbidden, Message: "Forbidden"}).Write(rec)

	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Body.String(), "Forbidden") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestValidateCSRF(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		csrf    string
		session string
		want    bool
	}{
		{"get needs nothing", http.MethodGet, "", "", true},
		{"head needs nothing", http.MethodHead, "", "", true},
		{"post matching", http.MethodPost, "tok123", "tok123", true},
		{"post missing csrf", http.MethodPost, "", "tok123", false},
		{"post missing session", http.MethodPost, "tok123", "", false},
		{"put mismatch", http.MethodPut, "tok123", "tok124", false},
		{"delete length mismatch", http.MethodDelete, "tok", "tok123", false},
		{"patch matching", http.MethodPatch, "abc", "abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/payments", nil)
			if tt.csrf != "" {
				req.Header.Set(HeaderCSRFToken, tt.csrf)
			}
			if tt.session != "" {
				req.Header.Set(HeaderSessionToken, tt.session)
			}
			if got := ValidateCSRF(req); got != tt.want {
				t.Errorf("ValidateCSRF = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspector_InspectCSRF(t *testing.T) {
	insp := NewInspector()

	req := httptest.NewRequest(http.MethodPost, "/api/payments", nil)
	rej := insp.InspectCSRF(req)
	if rej == nil || rej.Status != http.StatusForbidden || rej.Reason != ReasonCSRF {
		t.Fatalf("rejection = %+v", rej)
	}

	req.Header.Set(HeaderCSRFToken, "same")
	req.Header.Set(HeaderSessionToken, "same")
	if rej := insp.InspectCSRF(req); rej != nil {
		t.Errorf("unexpected rejection %+v", rej)
	}
}
