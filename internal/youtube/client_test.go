// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	yt "google.golang.org/api/youtube/v3"

	"github.com/nandcello/radstream/internal/models"
)

type staticTokens struct {
	err error
}

func (s staticTokens) EnsureAccessToken(context.Context) (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "test-access", TokenType: "Bearer"}, nil
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newClientForURL(t, srv.URL, staticTokens{})
}

func newClientForURL(t *testing.T, url string, tokens TokenProvider) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), ClientConfig{
		Tokens:            tokens,
		Endpoint:          url + "/",
		RequestTimeout:    5 * time.Second,
		RetryAttempts:     3,
		RetryDelay:        time.Millisecond,
		RequestsPerSecond: 1000,
		Burst:             100,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func writeAPIError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":%q,"errors":[{"domain":"youtube.liveBroadcast","reason":%q,"message":%q}]}}`,
		status, message, reason, message)
}

func decodeBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %s: %v", raw, err)
	}
	return body
}

func TestNewClientRequiresTokens(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(context.Background(), ClientConfig{}); err == nil {
		t.Fatal("NewClient() without tokens should fail")
	}
}

func TestListBroadcasts(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/youtube/v3/liveBroadcasts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-access" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("broadcastStatus") != "all" || q.Get("broadcastType") != "all" {
			t.Errorf("unexpected filters: %s", r.URL.RawQuery)
		}
		writeJSON(t, w, &yt.LiveBroadcastListResponse{Items: []*yt.LiveBroadcast{
			{
				Id: "b1",
				Snippet: &yt.LiveBroadcastSnippet{
					Title:              "Morning show",
					Description:        "coffee",
					ScheduledStartTime: "2026-03-01T10:00:00Z",
					ActualStartTime:    "2026-03-01T10:02:00Z",
				},
				Status:         &yt.LiveBroadcastStatus{LifeCycleStatus: "live", PrivacyStatus: "private"},
				ContentDetails: &yt.LiveBroadcastContentDetails{BoundStreamId: "s1"},
			},
			{Id: "b2"},
		}})
	}))

	got, err := c.ListBroadcasts(context.Background())
	if err != nil {
		t.Fatalf("ListBroadcasts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	b := got[0]
	if b.ID != "b1" || b.Title != "Morning show" || b.Description != "coffee" {
		t.Errorf("snippet not converted: %+v", b)
	}
	if !b.IsLive() || b.PrivacyStatus != "private" || b.BoundStreamID != "s1" {
		t.Errorf("status not converted: %+v", b)
	}
	if b.ActualStartTime == nil || !b.ActualStartTime.Equal(time.Date(2026, 3, 1, 10, 2, 0, 0, time.UTC)) {
		t.Errorf("ActualStartTime = %v", b.ActualStartTime)
	}
	if b.ActualEndTime != nil || b.PublishedAt != nil {
		t.Error("missing timestamps should stay nil")
	}
	if got[1].Title != "" || got[1].ScheduledStartTime != nil {
		t.Errorf("bare broadcast = %+v", got[1])
	}
}

func TestInsertBroadcast(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/youtube/v3/liveBroadcasts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body := decodeBody(t, r)

		snippet, _ := body["snippet"].(map[string]interface{})
		if snippet["title"] != "Launch" || snippet["scheduledStartTime"] != "2026-03-01T12:00:00Z" {
			t.Errorf("snippet = %v", snippet)
		}
		status, _ := body["status"].(map[string]interface{})
		if status["privacyStatus"] != "unlisted" {
			t.Errorf("status = %v", status)
		}
		details, _ := body["contentDetails"].(map[string]interface{})
		monitor, _ := details["monitorStream"].(map[string]interface{})
		if v, ok := monitor["enableMonitorStream"]; !ok || v != false {
			t.Errorf("monitorStream = %v, want enableMonitorStream=false sent", monitor)
		}

		writeJSON(t, w, &yt.LiveBroadcast{
			Id:      "new-1",
			Snippet: &yt.LiveBroadcastSnippet{Title: "Launch", ScheduledStartTime: "2026-03-01T12:00:00Z"},
			Status:  &yt.LiveBroadcastStatus{LifeCycleStatus: "created", PrivacyStatus: "unlisted"},
		})
	}))

	b, err := c.InsertBroadcast(context.Background(), BroadcastInsert{
		Title:              "Launch",
		PrivacyStatus:      "unlisted",
		ScheduledStartTime: start,
	})
	if err != nil {
		t.Fatalf("InsertBroadcast() error = %v", err)
	}
	if b.ID != "new-1" || b.LifeCycleStatus != models.LifecycleCreated {
		t.Errorf("broadcast = %+v", b)
	}
}

func TestUpdateBroadcastSendsEmptyDescription(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Query().Get("part") != "snippet" {
			t.Errorf("part = %q", r.URL.Query().Get("part"))
		}
		body := decodeBody(t, r)
		if body["id"] != "b1" {
			t.Errorf("id = %v", body["id"])
		}
		snippet, _ := body["snippet"].(map[string]interface{})
		if v, ok := snippet["description"]; !ok || v != "" {
			t.Errorf("description = %v (present %v), want explicit empty string", v, ok)
		}
		writeJSON(t, w, &yt.LiveBroadcast{Id: "b1", Snippet: &yt.LiveBroadcastSnippet{Title: "New"}})
	}))

	b, err := c.UpdateBroadcast(context.Background(), BroadcastUpdate{
		ID:                 "b1",
		Title:              "New",
		ScheduledStartTime: time.Now().Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("UpdateBroadcast() error = %v", err)
	}
	if b.Title != "New" {
		t.Errorf("Title = %q", b.Title)
	}
}

func TestBindAndTransition(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/youtube/v3/liveBroadcasts/bind":
			if q.Get("id") != "b1" || q.Get("streamId") != "s1" {
				t.Errorf("bind query = %s", r.URL.RawQuery)
			}
			writeJSON(t, w, &yt.LiveBroadcast{
				Id:             "b1",
				Status:         &yt.LiveBroadcastStatus{LifeCycleStatus: "ready"},
				ContentDetails: &yt.LiveBroadcastContentDetails{BoundStreamId: "s1"},
			})
		case "/youtube/v3/liveBroadcasts/transition":
			if q.Get("id") != "b1" || q.Get("broadcastStatus") != "live" {
				t.Errorf("transition query = %s", r.URL.RawQuery)
			}
			writeJSON(t, w, &yt.LiveBroadcast{
				Id:     "b1",
				Status: &yt.LiveBroadcastStatus{LifeCycleStatus: "live"},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	ctx := context.Background()
	bound, err := c.BindBroadcast(ctx, "b1", "s1")
	if err != nil {
		t.Fatalf("BindBroadcast() error = %v", err)
	}
	if bound.BoundStreamID != "s1" {
		t.Errorf("BoundStreamID = %q", bound.BoundStreamID)
	}

	live, err := c.TransitionBroadcast(ctx, "b1", TransitionLive)
	if err != nil {
		t.Fatalf("TransitionBroadcast() error = %v", err)
	}
	if !live.IsLive() {
		t.Errorf("status = %q, want live", live.LifeCycleStatus)
	}
}

func TestListStreams(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/liveStreams" || r.URL.Query().Get("mine") != "true" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		if r.URL.Query().Get("part") != "id,snippet,cdn,status,contentDetails" {
			t.Errorf("part = %q", r.URL.Query().Get("part"))
		}
		if r.Header.Get("Authorization") != "Bearer test-access" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[
			{"id":"s1",
			 "cdn":{"ingestionInfo":{"streamName":"abcd-efgh","ingestionAddress":"rtmp://a.rtmp.youtube.com/live2","rtmpsIngestionAddress":"rtmps://a.rtmps.youtube.com/live2"}},
			 "contentDetails":{"isReusable":false},
			 "status":{"streamStatus":"active","healthStatus":{"status":"bad","configurationIssues":[{"type":"videoBitrateLow","severity":"warning","reason":"Low bitrate"}]}}},
			{"id":"s2"},
			{"id":"s3","contentDetails":{"closedCaptionsIngestionUrl":"http://captions.example"}},
			{"id":"s4","contentDetails":{"isReusable":true}}
		]}`)
	}))

	streams, err := c.ListStreams(context.Background())
	if err != nil {
		t.Fatalf("ListStreams() error = %v", err)
	}
	if len(streams) != 4 {
		t.Fatalf("len = %d, want 4", len(streams))
	}

	s := streams[0]
	if s.StreamName != "abcd-efgh" || s.IngestURL() != "rtmps://a.rtmps.youtube.com/live2" {
		t.Errorf("ingestion info = %+v", s)
	}
	if s.StreamStatus != "active" || s.HealthStatus != "bad" || len(s.ConfigurationIssues) != 1 {
		t.Errorf("status = %+v", s)
	}

	tests := []struct {
		id           string
		wantFlag     *bool
		wantReusable bool
	}{
		{id: "s1", wantFlag: boolPtr(false), wantReusable: false},
		{id: "s2", wantFlag: nil, wantReusable: true},
		{id: "s3", wantFlag: nil, wantReusable: true},
		{id: "s4", wantFlag: boolPtr(true), wantReusable: true},
	}
	for i, tt := range tests {
		got := streams[i]
		if got.ID != tt.id {
			t.Fatalf("streams[%d].ID = %q, want %q", i, got.ID, tt.id)
		}
		if (got.IsReusable == nil) != (tt.wantFlag == nil) ||
			(got.IsReusable != nil && *got.IsReusable != *tt.wantFlag) {
			t.Errorf("%s: IsReusable = %v, want %v", tt.id, got.IsReusable, tt.wantFlag)
		}
		if got.Reusable() != tt.wantReusable {
			t.Errorf("%s: Reusable() = %v, want %v", tt.id, got.Reusable(), tt.wantReusable)
		}
	}
}

func boolPtr(b bool) *bool { return &b }

func TestGetStreamNotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "missing" {
			t.Errorf("id = %q", r.URL.Query().Get("id"))
		}
		writeJSON(t, w, &yt.LiveStreamListResponse{})
	}))

	_, err := c.GetStream(context.Background(), "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("GetStream() error = %v, want ErrNotFound", err)
	}
}

func TestInsertStream(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		cdn, _ := body["cdn"].(map[string]interface{})
		if cdn["ingestionType"] != "rtmp" {
			t.Errorf("cdn = %v", cdn)
		}
		details, _ := body["contentDetails"].(map[string]interface{})
		if details["isReusable"] != true {
			t.Errorf("contentDetails = %v", details)
		}
		writeJSON(t, w, &yt.LiveStream{
			Id:             "s-new",
			Cdn:            &yt.CdnSettings{IngestionInfo: &yt.IngestionInfo{StreamName: "key-1", IngestionAddress: "rtmp://x/live2"}},
			ContentDetails: &yt.LiveStreamContentDetails{IsReusable: true},
		})
	}))

	s, err := c.InsertStream(context.Background(), StreamInsert{Title: "ingest"})
	if err != nil {
		t.Fatalf("InsertStream() error = %v", err)
	}
	if s.ID != "s-new" || s.StreamName != "key-1" || s.IngestURL() != "rtmp://x/live2" {
		t.Errorf("stream = %+v", s)
	}
}

func TestClientErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		reason     string
		wantUnauth bool
		wantStatus int
	}{
		{name: "401 is unauthorized", status: http.StatusUnauthorized, reason: "authError", wantUnauth: true},
		{name: "403 passes reason through", status: http.StatusForbidden, reason: "insufficientPermissions", wantStatus: 403},
		{name: "invalid transition", status: http.StatusForbidden, reason: "invalidTransition", wantStatus: 403},
		{name: "bad request", status: http.StatusBadRequest, reason: "invalidScheduledStartTime", wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, tt.status, tt.reason, "provider says no")
			}))

			_, err := c.TransitionBroadcast(context.Background(), "b1", TransitionLive)
			if tt.wantUnauth {
				if !errors.Is(err, models.ErrUnauthorized) {
					t.Fatalf("error = %v, want ErrUnauthorized", err)
				}
				return
			}
			ue, ok := models.IsUpstream(err)
			if !ok {
				t.Fatalf("error = %v, want UpstreamError", err)
			}
			if ue.Status != tt.wantStatus || ue.Reason != tt.reason || ue.Message != "provider says no" {
				t.Errorf("UpstreamError = %+v", ue)
			}
			if ue.Operation != opTransitionBroadcast {
				t.Errorf("Operation = %q", ue.Operation)
			}
		})
	}
}

func TestReadRetries(t *testing.T) {
	t.Parallel()

	t.Run("does not retry 403", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeAPIError(w, http.StatusForbidden, "forbidden", "nope")
		}))

		if _, err := c.ListBroadcasts(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if got := hits.Load(); got != 1 {
			t.Errorf("hits = %d, want 1", got)
		}
	})

	t.Run("retries 503 up to the attempt limit", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeAPIError(w, http.StatusServiceUnavailable, "backendError", "try later")
		}))

		_, err := c.ListStreams(context.Background())
		ue, ok := models.IsUpstream(err)
		if !ok || ue.Status != http.StatusServiceUnavailable {
			t.Fatalf("error = %v, want 503 UpstreamError", err)
		}
		if got := hits.Load(); got != 3 {
			t.Errorf("hits = %d, want 3", got)
		}
	})

	t.Run("recovers after a transient failure", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				writeAPIError(w, http.StatusTooManyRequests, "rateLimitExceeded", "slow down")
				return
			}
			writeJSON(t, w, &yt.LiveBroadcastListResponse{})
		}))

		if _, err := c.ListBroadcasts(context.Background()); err != nil {
			t.Fatalf("ListBroadcasts() error = %v", err)
		}
		if got := hits.Load(); got != 2 {
			t.Errorf("hits = %d, want 2", got)
		}
	})

	t.Run("writes are never retried", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeAPIError(w, http.StatusServiceUnavailable, "backendError", "try later")
		}))

		if _, err := c.InsertStream(context.Background(), StreamInsert{Title: "x"}); err == nil {
			t.Fatal("expected error")
		}
		if got := hits.Load(); got != 1 {
			t.Errorf("hits = %d, want 1", got)
		}
	})
}

func TestMissingTokenSkipsProvider(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	noToken := fmt.Errorf("%w: authorization required", models.ErrUnauthorized)
	c := newClientForURL(t, srv.URL, staticTokens{err: noToken})

	_, err := c.ListBroadcasts(context.Background())
	if !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if hits.Load() != 0 {
		t.Error("provider should not be contacted without a token")
	}
}

func TestTransportFailureIsUpstream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClientForURL(t, url, staticTokens{})
	_, err := c.ListStreams(context.Background())
	ue, ok := models.IsUpstream(err)
	if !ok || ue.Status != 0 {
		t.Fatalf("error = %v, want transport UpstreamError", err)
	}
	if !ue.Temporary() {
		t.Error("transport failures should be temporary")
	}
}

func TestCircuitBreaker(t *testing.T) {
	t.Parallel()

	t.Run("opens on server errors", func(t *testing.T) {
		t.Parallel()
		var hits atomic.Int32
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			writeAPIError(w, http.StatusInternalServerError, "backendError", "boom")
		}))

		ctx := context.Background()
		for i := 0; i < 10; i++ {
			if _, err := c.InsertStream(ctx, StreamInsert{}); errors.Is(err, ErrCircuitOpen) {
				t.Fatalf("circuit opened early at call %d", i+1)
			}
		}
		if c.CircuitState() != "open" {
			t.Fatalf("state = %q, want open", c.CircuitState())
		}

		before := hits.Load()
		_, err := c.InsertStream(ctx, StreamInsert{})
		if !errors.Is(err, ErrCircuitOpen) {
			t.Fatalf("error = %v, want ErrCircuitOpen", err)
		}
		if hits.Load() != before {
			t.Error("open circuit should not contact the provider")
		}
	})

	t.Run("ignores client errors", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusForbidden, "invalidTransition", "bad state")
		}))

		for i := 0; i < 15; i++ {
			_, _ = c.TransitionBroadcast(context.Background(), "b1", TransitionLive)
		}
		if c.CircuitState() != "closed" {
			t.Errorf("state = %q, want closed", c.CircuitState())
		}
	})
}
