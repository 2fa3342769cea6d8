// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nandcello/radstream/internal/models"
)

func serveWithHeaders(handler http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestCrossSiteRequests_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		headers map[string]string
	}{
		{
			name:    "foreign origin creates stream key",
			method:  http.MethodGet,
			path:    "/api/youtube/stream-key",
			headers: map[string]string{"Origin": "https://evil.example"},
		},
		{
			name:    "cross-site navigation to stream key",
			method:  http.MethodGet,
			path:    "/api/youtube/stream-key",
			headers: map[string]string{"Sec-Fetch-Site": "cross-site"},
		},
		{
			name:    "form post ends stream",
			method:  http.MethodPost,
			path:    "/api/youtube/stream/end",
			headers: map[string]string{"Origin": "https://evil.example", "Sec-Fetch-Site": "cross-site", "Content-Type": "text/plain"},
		},
		{
			name:    "text body starts stream",
			method:  http.MethodPost,
			path:    "/api/youtube/stream/start",
			body:    `{"streamId":"s1"}`,
			headers: map[string]string{"Origin": "https://evil.example", "Content-Type": "text/plain"},
		},
		{
			name:    "fields alias",
			method:  http.MethodPost,
			path:    "/api/broadcast/fields",
			body:    `{"title":"pwned"}`,
			headers: map[string]string{"Origin": "https://evil.example", "Content-Type": "application/json"},
		},
		{
			name:    "opaque origin",
			method:  http.MethodPost,
			path:    "/api/youtube/broadcast/save",
			headers: map[string]string{"Origin": "null"},
		},
		{
			name:    "sibling subdomain",
			method:  http.MethodPost,
			path:    "/api/youtube/stream/end",
			headers: map[string]string{"Sec-Fetch-Site": "same-site"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fb := &fakeBroadcasts{streamKey: &models.StreamKeyInfo{StreamKey: "abcd-efgh"}}
			handler := newTestHandler(t, testDeps{broadcasts: fb})

			w := serveWithHeaders(handler, tt.method, tt.path, tt.body, tt.headers)
			if w.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403 (body %s)", w.Code, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Error.Code != ErrCodeForbidden {
				t.Errorf("code = %s, want %s", resp.Error.Code, ErrCodeForbidden)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
				t.Errorf("Access-Control-Allow-Origin = %q, want none", got)
			}
			if calls := fb.called(); len(calls) != 0 {
				t.Errorf("service called %v on a cross-site request", calls)
			}
		})
	}
}

func TestOAuthLogout_CrossSiteRejected(t *testing.T) {
	t.Parallel()

	flow := &fakeFlow{}
	handler := newTestHandler(t, testDeps{flow: flow})

	w := serveWithHeaders(handler, http.MethodPost, "/api/oauth/google/logout", "",
		map[string]string{"Origin": "https://evil.example", "Sec-Fetch-Site": "cross-site"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if flow.logouts != 0 {
		t.Errorf("logouts = %d, want 0", flow.logouts)
	}
}

func TestSameOriginRequests_Allowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no browser headers", headers: nil},
		{name: "same origin fetch", headers: map[string]string{"Origin": "http://example.com", "Sec-Fetch-Site": "same-origin"}},
		{name: "origin matches host", headers: map[string]string{"Origin": "http://EXAMPLE.com"}},
		{name: "typed into address bar", headers: map[string]string{"Sec-Fetch-Site": "none"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fb := &fakeBroadcasts{}
			handler := newTestHandler(t, testDeps{broadcasts: fb})

			w := serveWithHeaders(handler, http.MethodPost, "/api/youtube/stream/end", "", tt.headers)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
			}
			if calls := fb.called(); len(calls) != 1 || calls[0] != "end" {
				t.Errorf("calls = %v, want [end]", calls)
			}
		})
	}
}

func TestTrustedOrigin_GetsCORSHeader(t *testing.T) {
	t.Parallel()

	const ui = "http://localhost:5173"
	fb := &fakeBroadcasts{streamKey: &models.StreamKeyInfo{StreamKey: "abcd-efgh"}}
	handler := newTestHandler(t, testDeps{broadcasts: fb, corsOrigins: []string{ui}})

	w := serveWithHeaders(handler, http.MethodGet, "/api/youtube/stream-key", "",
		map[string]string{"Origin": ui, "Sec-Fetch-Site": "same-site"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != ui {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, ui)
	}

	// Unguarded reads still answer a foreign origin, but without a CORS
	// grant the browser keeps the body from the calling page.
	w = serveWithHeaders(handler, http.MethodGet, "/api/youtube/stream-key/peek", "",
		map[string]string{"Origin": "https://evil.example"})
	if w.Code != http.StatusOK {
		t.Fatalf("peek status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("peek Access-Control-Allow-Origin = %q, want none", got)
	}
}

func TestRequireJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "json", body: `{"title":"Launch"}`, contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset", body: `{"title":"Launch"}`, contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "empty body without type", wantStatus: http.StatusOK},
		{name: "text plain", body: `{"title":"Launch"}`, contentType: "text/plain", wantStatus: http.StatusUnsupportedMediaType},
		{name: "form", body: `title=Launch`, contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing type", body: `{"title":"Launch"}`, wantStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fb := &fakeBroadcasts{}
			handler := newTestHandler(t, testDeps{broadcasts: fb})

			headers := map[string]string{}
			if tt.contentType != "" {
				headers["Content-Type"] = tt.contentType
			}
			w := serveWithHeaders(handler, http.MethodPost, "/api/youtube/broadcast/save", tt.body, headers)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusUnsupportedMediaType {
				if resp := decodeError(t, w); resp.Error.Code != ErrCodeUnsupportedMedia {
					t.Errorf("code = %s, want %s", resp.Error.Code, ErrCodeUnsupportedMedia)
				}
				if calls := fb.called(); len(calls) != 0 {
					t.Errorf("service called %v", calls)
				}
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	t.Parallel()

	trusted := map[string]struct{}{"http://localhost:5173": {}}

	tests := []struct {
		name    string
		origin  string
		site    string
		wantErr error
	}{
		{name: "trusted origin cross port", origin: "http://localhost:5173", site: "same-site"},
		{name: "trusted origin without fetch metadata", origin: "http://localhost:5173/"},
		{name: "cross site without origin", site: "cross-site", wantErr: ErrCrossSiteRequest},
		{name: "cross site foreign origin", origin: "https://evil.example", site: "cross-site", wantErr: ErrCrossSiteRequest},
		{name: "foreign origin only", origin: "https://evil.example", wantErr: ErrOriginNotTrusted},
		{name: "host lookalike", origin: "http://example.com.evil.example", wantErr: ErrOriginNotTrusted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/youtube/stream/end", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.site != "" {
				req.Header.Set("Sec-Fetch-Site", tt.site)
			}

			err := checkOrigin(req, trusted)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkOrigin() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
