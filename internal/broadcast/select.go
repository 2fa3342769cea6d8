// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import (
	"time"

	"github.com/nandcello/radstream/internal/models"
)

// PickMostRecent returns the broadcast with the newest sort time, or nil for
// an empty input. Ties keep the earlier element. Broadcasts with no
// timestamps sort last.
func PickMostRecent(broadcasts []*models.Broadcast) *models.Broadcast {
	var best *models.Broadcast
	var bestAt time.Time
	for _, b := range broadcasts {
		if b == nil {
			continue
		}
		at := sortTime(b)
		if best == nil || at.After(bestAt) {
			best, bestAt = b, at
		}
	}
	return best
}

// sortTime is the first present of actual start, scheduled start, actual end
// and published time.
func sortTime(b *models.Broadcast) time.Time {
	for _, t := range []*time.Time{b.ActualStartTime, b.ScheduledStartTime, b.ActualEndTime, b.PublishedAt} {
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

// IsActive reports whether status is created, ready, testing or live.
func IsActive(status string) bool {
	switch status {
	case models.LifecycleCreated, models.LifecycleReady, models.LifecycleTesting, models.LifecycleLive:
		return true
	default:
		return false
	}
}

// isTerminal reports whether a broadcast can never go live again.
func isTerminal(status string) bool {
	switch status {
	case models.LifecycleComplete, models.LifecycleCanceled, models.LifecycleRevoked:
		return true
	default:
		return false
	}
}

func filterActive(broadcasts []*models.Broadcast) []*models.Broadcast {
	out := make([]*models.Broadcast, 0, len(broadcasts))
	for _, b := range broadcasts {
		if b != nil && IsActive(b.LifeCycleStatus) {
			out = append(out, b)
		}
	}
	return out
}

// pickCurrentForLifecycle prefers a live broadcast over a newer scheduled
// one, so start, end and the status reads act on what viewers are watching.
func pickCurrentForLifecycle(broadcasts []*models.Broadcast) *models.Broadcast {
	var live []*models.Broadcast
	for _, b := range broadcasts {
		if b.IsLive() {
			live = append(live, b)
		}
	}
	if len(live) > 0 {
		return PickMostRecent(live)
	}
	return PickMostRecent(broadcasts)
}
