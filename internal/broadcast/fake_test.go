// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nandcello/radstream/internal/models"
	"github.com/nandcello/radstream/internal/youtube"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) *time.Time {
	t := testNow.Add(offset)
	return &t
}

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

// fakeAPI is an in-memory youtube.API that mimics the provider's state
// changes and records every call.
type fakeAPI struct {
	mu sync.Mutex

	broadcasts []*models.Broadcast
	streams    []*models.LiveStream

	calls    []string
	inserted []youtube.BroadcastInsert
	updated  []youtube.BroadcastUpdate

	listErr       error
	insertErr     error
	updateErr     error
	transitionErr error
	getStreamErr  error
}

var _ youtube.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) find(id string) *models.Broadcast {
	for _, b := range f.broadcasts {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (f *fakeAPI) ListBroadcasts(context.Context) ([]*models.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_broadcasts")
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Broadcast, 0, len(f.broadcasts))
	for _, b := range f.broadcasts {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAPI) InsertBroadcast(_ context.Context, in youtube.BroadcastInsert) (*models.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert_broadcast")
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, in)
	start := in.ScheduledStartTime
	b := &models.Broadcast{
		ID:                 fmt.Sprintf("new-%d", len(f.inserted)),
		Title:              in.Title,
		Description:        in.Description,
		LifeCycleStatus:    models.LifecycleCreated,
		PrivacyStatus:      in.PrivacyStatus,
		ScheduledStartTime: &start,
	}
	f.broadcasts = append(f.broadcasts, b)
	cp := *b
	return &cp, nil
}

func (f *fakeAPI) UpdateBroadcast(_ context.Context, in youtube.BroadcastUpdate) (*models.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_broadcast:" + in.ID)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated = append(f.updated, in)
	b := f.find(in.ID)
	if b == nil {
		return nil, &models.UpstreamError{Operation: "liveBroadcasts.update", Status: 404, Reason: "liveBroadcastNotFound"}
	}
	start := in.ScheduledStartTime
	b.Title, b.Description, b.ScheduledStartTime = in.Title, in.Description, &start
	// The provider echoes only the snippet for part=snippet.
	return &models.Broadcast{ID: b.ID, Title: b.Title, Description: b.Description, ScheduledStartTime: &start}, nil
}

func (f *fakeAPI) BindBroadcast(_ context.Context, broadcastID, streamID string) (*models.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("bind:" + broadcastID + ":" + streamID)
	b := f.find(broadcastID)
	if b == nil {
		return nil, &models.UpstreamError{Operation: "liveBroadcasts.bind", Status: 404}
	}
	b.BoundStreamID = streamID
	if b.LifeCycleStatus == models.LifecycleCreated {
		b.LifeCycleStatus = models.LifecycleReady
	}
	cp := *b
	return &cp, nil
}

func (f *fakeAPI) TransitionBroadcast(_ context.Context, broadcastID, status string) (*models.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("transition:" + broadcastID + ":" + status)
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	b := f.find(broadcastID)
	if b == nil {
		return nil, &models.UpstreamError{Operation: "liveBroadcasts.transition", Status: 404}
	}
	b.LifeCycleStatus = status
	cp := *b
	return &cp, nil
}

func (f *fakeAPI) ListStreams(context.Context) ([]*models.LiveStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_streams")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*models.LiveStream(nil), f.streams...), nil
}

func (f *fakeAPI) GetStream(_ context.Context, streamID string) (*models.LiveStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get_stream:" + streamID)
	if f.getStreamErr != nil {
		return nil, f.getStreamErr
	}
	for _, s := range f.streams {
		if s.ID == streamID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("live stream %s: %w", streamID, models.ErrNotFound)
}

func (f *fakeAPI) InsertStream(_ context.Context, in youtube.StreamInsert) (*models.LiveStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("insert_stream")
	s := &models.LiveStream{
		ID:               fmt.Sprintf("stream-new-%d", len(f.streams)+1),
		Title:            in.Title,
		StreamName:       "new-stream-key-0001",
		IngestionAddress: "rtmp://a.rtmp.youtube.com/live2",
		IsReusable:       boolPtr(true),
	}
	f.streams = append(f.streams, s)
	return s, nil
}

func (f *fakeAPI) count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// newTestService returns a service with a fixed clock and a sleep recorder.
func newTestService(api *fakeAPI) (*Service, *[]time.Duration) {
	svc := NewService(api, Config{
		DefaultPrivacy:     "private",
		DefaultTitle:       "Live stream",
		StreamTitle:        "Radstream ingest",
		ActiveOnly:         true,
		ScheduleLead:       time.Minute,
		ScheduleBuffer:     5 * time.Minute,
		StabilizationDelay: 3500 * time.Millisecond,
	})
	svc.now = func() time.Time { return testNow }

	var slept []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return svc, &slept
}
