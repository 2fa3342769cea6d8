// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package broadcast

import (
	"context"
	"errors"

	"github.com/nandcello/radstream/internal/models"
)

// BroadcastStatus returns the lifecycle badge of the current broadcast.
func (s *Service) BroadcastStatus(ctx context.Context) (*models.BroadcastStatus, error) {
	b, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	status := ""
	if b != nil {
		status = b.LifeCycleStatus
	}
	label := LifecycleLabel(status)
	return &models.BroadcastStatus{Status: label.Text, Color: label.Color, LifeCycleStatus: status}, nil
}

// LiveStreamStatus returns the ingest badge of the stream bound to the
// current broadcast, or of the reusable stream when nothing is bound.
func (s *Service) LiveStreamStatus(ctx context.Context) (*models.LiveStreamStatus, error) {
	b, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}

	if b != nil && b.BoundStreamID != "" {
		stream, err := s.api.GetStream(ctx, b.BoundStreamID)
		switch {
		case err == nil:
			return ToLiveStreamStatus(stream), nil
		case !errors.Is(err, models.ErrNotFound):
			return nil, err
		}
	}

	stream, err := s.findReusable(ctx)
	if err != nil {
		return nil, err
	}
	return ToLiveStreamStatus(stream), nil
}
