// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/models"
	"github.com/nandcello/radstream/internal/youtube"
)

// Latest returns the current broadcast without changing remote state.
// It returns nil, nil when there is none.
func (s *Service) Latest(ctx context.Context) (*models.Broadcast, error) {
	all, err := s.api.ListBroadcasts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list broadcasts: %w", err)
	}
	return s.pickCandidate(all), nil
}

// LatestInfo is Latest rendered for the UI, including the bound stream's
// status. It returns nil, nil when there is no broadcast.
func (s *Service) LatestInfo(ctx context.Context) (*models.BroadcastInfo, error) {
	b, err := s.Latest(ctx)
	if err != nil || b == nil {
		return nil, err
	}
	return s.describe(ctx, b)
}

// ResolveOrCreate applies fields to the current broadcast, creating one when
// none exists. Nil or blank fields keep their current values.
func (s *Service) ResolveOrCreate(ctx context.Context, fields models.BroadcastFields) (*models.BroadcastInfo, error) {
	all, err := s.api.ListBroadcasts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list broadcasts: %w", err)
	}

	current := s.pickCandidate(all)
	if current == nil {
		created, err := s.create(ctx, valueOf(fields.Title), valueOf(fields.Description))
		if err != nil {
			return nil, err
		}
		return s.describe(ctx, created)
	}

	updated, err := s.update(ctx, current, fields)
	if err != nil {
		return nil, err
	}
	return s.describe(ctx, updated)
}

// pickCandidate applies the same live-first rule as StartStream and
// EndStream, so the badges and the edit form show the broadcast those
// buttons act on.
func (s *Service) pickCandidate(all []*models.Broadcast) *models.Broadcast {
	if s.cfg.ActiveOnly {
		all = filterActive(all)
	}
	return pickCurrentForLifecycle(all)
}

// create inserts a broadcast scheduled ScheduleLead from now. A blank title
// becomes the default title stamped with the current date.
func (s *Service) create(ctx context.Context, title, description string) (*models.Broadcast, error) {
	if strings.TrimSpace(title) == "" {
		title = s.defaultTitle()
	}

	b, err := s.api.InsertBroadcast(ctx, youtube.BroadcastInsert{
		Title:              title,
		Description:        description,
		PrivacyStatus:      s.cfg.DefaultPrivacy,
		ScheduledStartTime: s.now().Add(s.cfg.ScheduleLead),
	})
	if err != nil {
		return nil, fmt.Errorf("create broadcast: %w", err)
	}

	logging.Ctx(ctx).Info().Str("broadcast_id", b.ID).Str("privacy", s.cfg.DefaultPrivacy).Msg("Broadcast created")
	return b, nil
}

// update sends a merged snippet so unspecified fields are not cleared.
func (s *Service) update(ctx context.Context, current *models.Broadcast, fields models.BroadcastFields) (*models.Broadcast, error) {
	title := current.Title
	if t := valueOf(fields.Title); strings.TrimSpace(t) != "" {
		title = t
	}
	description := current.Description
	if fields.Description != nil {
		description = *fields.Description
	}

	if title == current.Title && description == current.Description {
		return current, nil
	}

	// The provider rejects a scheduled start in the past.
	start := s.now().Add(s.cfg.ScheduleBuffer)
	if current.ScheduledStartTime != nil && current.ScheduledStartTime.After(start) {
		start = *current.ScheduledStartTime
	}

	updated, err := s.api.UpdateBroadcast(ctx, youtube.BroadcastUpdate{
		ID:                 current.ID,
		Title:              title,
		Description:        description,
		ScheduledStartTime: start,
	})
	if err != nil {
		return nil, fmt.Errorf("update broadcast %s: %w", current.ID, err)
	}

	// Update only returns the snippet; keep the status we already know.
	if updated.LifeCycleStatus == "" {
		updated.LifeCycleStatus = current.LifeCycleStatus
	}
	if updated.PrivacyStatus == "" {
		updated.PrivacyStatus = current.PrivacyStatus
	}
	if updated.BoundStreamID == "" {
		updated.BoundStreamID = current.BoundStreamID
	}

	logging.Ctx(ctx).Info().Str("broadcast_id", current.ID).Msg("Broadcast updated")
	return updated, nil
}

// describe renders b with its bound stream's status. A stream lookup failure
// other than Unauthorized degrades to "waiting" rather than failing the read.
func (s *Service) describe(ctx context.Context, b *models.Broadcast) (*models.BroadcastInfo, error) {
	var stream *models.LiveStream
	if b.BoundStreamID != "" {
		st, err := s.api.GetStream(ctx, b.BoundStreamID)
		switch {
		case err == nil:
			stream = st
		case errors.Is(err, models.ErrUnauthorized):
			return nil, err
		case errors.Is(err, models.ErrNotFound):
		default:
			logging.Ctx(ctx).Warn().Err(err).Str("stream_id", b.BoundStreamID).Msg("Bound stream lookup failed")
		}
	}
	return ToInfo(b, stream), nil
}

func (s *Service) defaultTitle() string {
	return fmt.Sprintf("%s %s", s.cfg.DefaultTitle, s.now().Format("2006-01-02"))
}

func valueOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
