// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import (
	"context"
	"fmt"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/models"
	"github.com/nandcello/radstream/internal/youtube"
)

// StartStream takes the current broadcast live. It is a no-op when a
// broadcast is already live. A missing or finished broadcast is replaced by
// a new one carrying the previous title and description. The transition is
// only attempted from created, ready or testing; any other status is
// returned unchanged.
func (s *Service) StartStream(ctx context.Context, opts models.StartOptions) (*models.StartResult, error) {
	all, err := s.api.ListBroadcasts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list broadcasts: %w", err)
	}

	current := pickCurrentForLifecycle(all)
	if current.IsLive() {
		return &models.StartResult{
			BroadcastID: current.ID,
			StreamID:    current.BoundStreamID,
			Status:      current.LifeCycleStatus,
		}, nil
	}

	log := logging.Ctx(ctx)
	justCreated := false
	if current == nil || isTerminal(current.LifeCycleStatus) {
		var title, description string
		if current != nil {
			title, description = current.Title, current.Description
		}
		current, err = s.create(ctx, title, description)
		if err != nil {
			return nil, err
		}
		justCreated = true
	}

	streamID, err := s.resolveStreamID(ctx, opts.StreamID, current)
	if err != nil {
		return nil, err
	}

	if current.BoundStreamID != streamID {
		bound, err := s.api.BindBroadcast(ctx, current.ID, streamID)
		if err != nil {
			return nil, fmt.Errorf("bind broadcast %s to stream %s: %w", current.ID, streamID, err)
		}
		if bound.LifeCycleStatus == "" {
			bound.LifeCycleStatus = current.LifeCycleStatus
		}
		current = bound
		log.Info().Str("broadcast_id", current.ID).Str("stream_id", streamID).Msg("Broadcast bound to stream")
	}

	switch current.LifeCycleStatus {
	case models.LifecycleCreated, models.LifecycleReady, models.LifecycleTesting:
	default:
		log.Info().Str("broadcast_id", current.ID).Str("status", current.LifeCycleStatus).Msg("Broadcast not in a startable state")
		return &models.StartResult{BroadcastID: current.ID, StreamID: streamID, Status: current.LifeCycleStatus}, nil
	}

	if justCreated {
		if err := s.sleep(ctx, s.cfg.StabilizationDelay); err != nil {
			return nil, err
		}
	}

	live, err := s.api.TransitionBroadcast(ctx, current.ID, youtube.TransitionLive)
	if err != nil {
		return nil, fmt.Errorf("transition broadcast %s to live: %w", current.ID, err)
	}

	log.Info().Str("broadcast_id", live.ID).Str("status", live.LifeCycleStatus).Msg("Broadcast started")
	return &models.StartResult{BroadcastID: live.ID, StreamID: streamID, Status: live.LifeCycleStatus}, nil
}

// EndStream completes the live broadcast. It fails with ErrNotFound when no
// broadcast exists and with ErrPreconditionFailed, without contacting the
// provider again, when the current broadcast is not live.
func (s *Service) EndStream(ctx context.Context) (*models.EndResult, error) {
	all, err := s.api.ListBroadcasts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list broadcasts: %w", err)
	}

	current := pickCurrentForLifecycle(all)
	if current == nil {
		return nil, fmt.Errorf("no broadcast to end: %w", models.ErrNotFound)
	}
	if !current.IsLive() {
		return nil, fmt.Errorf("broadcast %s is %q, not live: %w", current.ID, current.LifeCycleStatus, models.ErrPreconditionFailed)
	}

	done, err := s.api.TransitionBroadcast(ctx, current.ID, youtube.TransitionComplete)
	if err != nil {
		return nil, fmt.Errorf("transition broadcast %s to complete: %w", current.ID, err)
	}

	logging.Ctx(ctx).Info().Str("broadcast_id", done.ID).Msg("Broadcast ended")
	return &models.EndResult{BroadcastID: done.ID, Status: done.LifeCycleStatus}, nil
}

// resolveStreamID picks, in order: the caller's ID, the stream already bound
// to b, then the first reusable stream, creating one if none exists.
func (s *Service) resolveStreamID(ctx context.Context, explicit string, b *models.Broadcast) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if b.BoundStreamID != "" {
		return b.BoundStreamID, nil
	}
	stream, err := s.ensureStream(ctx)
	if err != nil {
		return "", err
	}
	return stream.ID, nil
}
