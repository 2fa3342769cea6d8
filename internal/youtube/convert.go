// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package youtube

import (
	"time"

	yt "google.golang.org/api/youtube/v3"

	"github.com/nandcello/radstream/internal/models"
)

func toBroadcast(item *yt.LiveBroadcast) *models.Broadcast {
	if item == nil {
		return nil
	}
	b := &models.Broadcast{ID: item.Id}
	if s := item.Snippet; s != nil {
		b.Title = s.Title
		b.Description = s.Description
		b.ScheduledStartTime = parseTime(s.ScheduledStartTime)
		b.ActualStartTime = parseTime(s.ActualStartTime)
		b.ActualEndTime = parseTime(s.ActualEndTime)
		b.PublishedAt = parseTime(s.PublishedAt)
	}
	if st := item.Status; st != nil {
		b.LifeCycleStatus = st.LifeCycleStatus
		b.PrivacyStatus = st.PrivacyStatus
	}
	if cd := item.ContentDetails; cd != nil {
		b.BoundStreamID = cd.BoundStreamId
	}
	return b
}

func toLiveStream(item *yt.LiveStream) *models.LiveStream {
	if item == nil {
		return nil
	}
	s := &models.LiveStream{ID: item.Id}
	if item.Snippet != nil {
		s.Title = item.Snippet.Title
	}
	if item.Cdn != nil && item.Cdn.IngestionInfo != nil {
		info := item.Cdn.IngestionInfo
		s.StreamName = info.StreamName
		s.IngestionAddress = info.IngestionAddress
		s.RtmpsIngestionAddress = info.RtmpsIngestionAddress
	}
	// The generated type cannot tell an absent isReusable from false, so
	// only a true flag is recorded here. listStreams fills in explicit false.
	if item.ContentDetails != nil && item.ContentDetails.IsReusable {
		reusable := true
		s.IsReusable = &reusable
	}
	if st := item.Status; st != nil {
		s.StreamStatus = st.StreamStatus
		if h := st.HealthStatus; h != nil {
			s.HealthStatus = h.Status
			for _, issue := range h.ConfigurationIssues {
				if issue == nil {
					continue
				}
				s.ConfigurationIssues = append(s.ConfigurationIssues, models.ConfigurationIssue{
					Type:        issue.Type,
					Severity:    issue.Severity,
					Reason:      issue.Reason,
					Description: issue.Description,
				})
			}
		}
	}
	return s
}

// parseTime returns nil for empty or unparseable provider timestamps.
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
