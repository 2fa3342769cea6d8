// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package models

import "time"

// Lifecycle statuses reported by the provider for a broadcast.
const (
	LifecycleCreated  = "created"
	LifecycleReady    = "ready"
	LifecycleTesting  = "testing"
	LifecycleLive     = "live"
	LifecycleComplete = "complete"
	LifecycleRevoked  = "revoked"
	LifecycleCanceled = "canceled"
)

// Stream statuses reported by the provider for an ingestion endpoint.
const (
	StreamStatusCreated  = "created"
	StreamStatusReady    = "ready"
	StreamStatusActive   = "active"
	StreamStatusInactive = "inactive"
	StreamStatusError    = "error"
)

// HealthNoData is the health status assumed when the provider reports none.
const HealthNoData = "noData"

// WatchURLPrefix is the canonical watch URL prefix for a broadcast ID.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// Broadcast is a snapshot of a remote live broadcast.
// Time fields are nil when the provider omitted them.
type Broadcast struct {
	ID                 string
	Title              string
	Description        string
	LifeCycleStatus    string
	PrivacyStatus      string
	ScheduledStartTime *time.Time
	ActualStartTime    *time.Time
	ActualEndTime      *time.Time
	PublishedAt        *time.Time
	BoundStreamID      string
}

// WatchURL returns the canonical watch URL for the broadcast.
func (b *Broadcast) WatchURL() string {
	if b == nil || b.ID == "" {
		return ""
	}
	return WatchURLPrefix + b.ID
}

// IsLive reports whether the broadcast is currently live.
func (b *Broadcast) IsLive() bool {
	return b != nil && b.LifeCycleStatus == LifecycleLive
}

// ConfigurationIssue is a provider-reported problem with an ingestion stream.
type ConfigurationIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

// LiveStream is a snapshot of a remote ingestion endpoint.
type LiveStream struct {
	ID                    string
	Title                 string
	StreamName            string
	IngestionAddress      string
	RtmpsIngestionAddress string

	// IsReusable is nil when the provider omitted contentDetails.isReusable.
	IsReusable *bool

	StreamStatus        string
	HealthStatus        string
	ConfigurationIssues []ConfigurationIssue
}

// Reusable reports whether the stream may be bound to more than one broadcast.
// A missing flag is treated as reusable.
func (s *LiveStream) Reusable() bool {
	return s.IsReusable == nil || *s.IsReusable
}

// IngestURL returns the preferred ingest URL, favoring RTMPS.
func (s *LiveStream) IngestURL() string {
	if s.RtmpsIngestionAddress != "" {
		return s.RtmpsIngestionAddress
	}
	return s.IngestionAddress
}

// BroadcastInfo is the UI-facing view of a broadcast.
type BroadcastInfo struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	URL                string     `json:"url"`
	Status             string     `json:"status"`
	StatusLabel        string     `json:"statusLabel"`
	StatusColor        string     `json:"statusColor"`
	PrivacyStatus      string     `json:"privacyStatus,omitempty"`
	ScheduledStartTime *time.Time `json:"scheduledStartTime,omitempty"`
	StreamID           string     `json:"streamId,omitempty"`
	StreamStatus       string     `json:"streamStatus,omitempty"`
	HealthStatus       string     `json:"healthStatus,omitempty"`
}

// StreamKeyInfo is the UI-facing view of the reusable ingestion stream.
// All fields are empty when no stream exists.
type StreamKeyInfo struct {
	StreamKey           string               `json:"streamKey,omitempty"`
	IngestURL           string               `json:"ingestUrl,omitempty"`
	StreamID            string               `json:"streamId,omitempty"`
	StreamStatus        string               `json:"streamStatus,omitempty"`
	HealthStatus        string               `json:"healthStatus,omitempty"`
	ConfigurationIssues []ConfigurationIssue `json:"configurationIssues,omitempty"`
}

// StartOptions are caller-supplied hints for starting a stream.
type StartOptions struct {
	StreamID string `json:"streamId,omitempty" validate:"omitempty,max=128,youtube_id"`
}

// StartResult describes the broadcast after a start request.
type StartResult struct {
	BroadcastID string `json:"broadcastId"`
	StreamID    string `json:"streamId,omitempty"`
	Status      string `json:"status"`
}

// EndResult describes the broadcast after an end request.
type EndResult struct {
	BroadcastID string `json:"broadcastId"`
	Status      string `json:"status"`
}

// BroadcastFields are the user-editable broadcast fields.
// Nil pointers mean "leave unchanged".
type BroadcastFields struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=100,youtube_text"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000,youtube_text"`
}

// BroadcastStatus is the normalized lifecycle badge of the current broadcast.
type BroadcastStatus struct {
	Status          string `json:"status"`
	Color           string `json:"color"`
	LifeCycleStatus string `json:"lifeCycleStatus,omitempty"`
}

// LiveStreamStatus is the normalized ingest badge of the current stream.
type LiveStreamStatus struct {
	Status       string `json:"status"`
	HealthStatus string `json:"healthStatus"`
}
