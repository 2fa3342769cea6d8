// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import (
	"context"
	"time"

	"github.com/nandcello/radstream/internal/config"
	"github.com/nandcello/radstream/internal/youtube"
)

// Config controls defaults for broadcasts and streams created by the service.
type Config struct {
	DefaultPrivacy string
	DefaultTitle   string
	StreamTitle    string

	// ActiveOnly restricts Latest and ResolveOrCreate to broadcasts in
	// created, ready, testing or live.
	ActiveOnly bool

	// ScheduleLead is how far ahead new broadcasts are scheduled.
	ScheduleLead time.Duration
	// ScheduleBuffer is the minimum distance between now and the scheduled
	// start sent on update.
	ScheduleBuffer time.Duration
	// StabilizationDelay is waited between creating a broadcast and
	// transitioning it to live.
	StabilizationDelay time.Duration
}

// ConfigFrom builds a Config from the youtube config section.
func ConfigFrom(cfg *config.YouTubeConfig) Config {
	return Config{
		DefaultPrivacy:     cfg.DefaultPrivacy,
		DefaultTitle:       cfg.DefaultTitle,
		StreamTitle:        cfg.StreamTitle,
		ActiveOnly:         cfg.ActiveOnly,
		ScheduleLead:       cfg.ScheduleLead,
		ScheduleBuffer:     cfg.ScheduleBuffer,
		StabilizationDelay: cfg.StabilizationDelay,
	}
}

// Service implements broadcast reconciliation on top of a youtube.API.
type Service struct {
	api   youtube.API
	cfg   Config
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService creates a Service.
func NewService(api youtube.API, cfg Config) *Service {
	if cfg.DefaultPrivacy == "" {
		cfg.DefaultPrivacy = "private"
	}
	if cfg.DefaultTitle == "" {
		cfg.DefaultTitle = "Live stream"
	}
	if cfg.StreamTitle == "" {
		cfg.StreamTitle = "Radstream ingest"
	}
	if cfg.ScheduleLead <= 0 {
		cfg.ScheduleLead = time.Minute
	}
	return &Service{
		api:   api,
		cfg:   cfg,
		now:   time.Now,
		sleep: sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
