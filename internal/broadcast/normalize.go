// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import "github.com/nandcello/radstream/internal/models"

// Badge colors.
const (
	ColorLive     = "red"
	ColorUpcoming = "yellow"
	ColorEnded    = "blue"
	ColorStopped  = "orange"
	ColorNeutral  = "gray"
)

// UI labels.
const (
	LabelLive         = "Live"
	LabelStartingSoon = "Starting Soon"
	LabelEnded        = "Ended"
	LabelCanceled     = "Canceled"
	LabelRevoked      = "Revoked"
	LabelOffline      = "Offline"

	StreamLabelReceiving = "receiving data"
	StreamLabelLost      = "lost connection"
	StreamLabelWaiting   = "waiting for connection.."
)

// Label is a display string and badge color.
type Label struct {
	Text  string
	Color string
}

// LifecycleLabel maps a lifecycle status to its badge. An empty status means
// there is no broadcast and reads as Offline.
func LifecycleLabel(status string) Label {
	switch status {
	case models.LifecycleLive:
		return Label{LabelLive, ColorLive}
	case models.LifecycleCreated, models.LifecycleReady, models.LifecycleTesting:
		return Label{LabelStartingSoon, ColorUpcoming}
	case models.LifecycleComplete:
		return Label{LabelEnded, ColorEnded}
	case models.LifecycleCanceled:
		return Label{LabelCanceled, ColorStopped}
	case models.LifecycleRevoked:
		return Label{LabelRevoked, ColorStopped}
	case "":
		return Label{LabelOffline, ColorNeutral}
	default:
		return Label{status, ColorNeutral}
	}
}

// StreamLabel maps a stream status to its UI string.
func StreamLabel(status string) string {
	switch status {
	case models.StreamStatusActive:
		return StreamLabelReceiving
	case models.StreamStatusError:
		return StreamLabelLost
	default:
		return StreamLabelWaiting
	}
}

// HealthLabel passes the health status through, defaulting to noData.
func HealthLabel(status string) string {
	if status == "" {
		return models.HealthNoData
	}
	return status
}

// ToInfo builds the UI record for b. stream may be nil.
func ToInfo(b *models.Broadcast, stream *models.LiveStream) *models.BroadcastInfo {
	if b == nil {
		return nil
	}
	label := LifecycleLabel(b.LifeCycleStatus)
	info := &models.BroadcastInfo{
		ID:                 b.ID,
		Title:              b.Title,
		Description:        b.Description,
		URL:                b.WatchURL(),
		Status:             b.LifeCycleStatus,
		StatusLabel:        label.Text,
		StatusColor:        label.Color,
		PrivacyStatus:      b.PrivacyStatus,
		ScheduledStartTime: b.ScheduledStartTime,
		StreamID:           b.BoundStreamID,
		StreamStatus:       StreamLabel(""),
		HealthStatus:       HealthLabel(""),
	}
	if stream != nil {
		info.StreamStatus = StreamLabel(stream.StreamStatus)
		info.HealthStatus = HealthLabel(stream.HealthStatus)
	}
	return info
}

// ToStreamKeyInfo builds the UI record for stream; nil yields an empty record.
func ToStreamKeyInfo(stream *models.LiveStream) *models.StreamKeyInfo {
	if stream == nil {
		return &models.StreamKeyInfo{}
	}
	return &models.StreamKeyInfo{
		StreamKey:           stream.StreamName,
		IngestURL:           stream.IngestURL(),
		StreamID:            stream.ID,
		StreamStatus:        StreamLabel(stream.StreamStatus),
		HealthStatus:        HealthLabel(stream.HealthStatus),
		ConfigurationIssues: stream.ConfigurationIssues,
	}
}

// ToLiveStreamStatus builds the ingest badge for stream, which may be nil.
func ToLiveStreamStatus(stream *models.LiveStream) *models.LiveStreamStatus {
	if stream == nil {
		return &models.LiveStreamStatus{Status: StreamLabel(""), HealthStatus: HealthLabel("")}
	}
	return &models.LiveStreamStatus{
		Status:       StreamLabel(stream.StreamStatus),
		HealthStatus: HealthLabel(stream.HealthStatus),
	}
}
