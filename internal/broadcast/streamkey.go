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

// GetOrCreateStreamKey returns the first reusable stream's key, creating a
// reusable RTMP stream when none exists.
func (s *Service) GetOrCreateStreamKey(ctx context.Context) (*models.StreamKeyInfo, error) {
	stream, err := s.ensureStream(ctx)
	if err != nil {
		return nil, err
	}
	return ToStreamKeyInfo(stream), nil
}

// PeekStreamKey is GetOrCreateStreamKey without the create; it returns an
// empty record when no reusable stream exists.
func (s *Service) PeekStreamKey(ctx context.Context) (*models.StreamKeyInfo, error) {
	stream, err := s.findReusable(ctx)
	if err != nil {
		return nil, err
	}
	return ToStreamKeyInfo(stream), nil
}

func (s *Service) ensureStream(ctx context.Context) (*models.LiveStream, error) {
	stream, err := s.findReusable(ctx)
	if err != nil || stream != nil {
		return stream, err
	}

	stream, err = s.api.InsertStream(ctx, youtube.StreamInsert{Title: s.cfg.StreamTitle})
	if err != nil {
		return nil, fmt.Errorf("create live stream: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("stream_id", stream.ID).
		Str("stream_key", logging.RedactSecret(stream.StreamName)).
		Msg("Reusable live stream created")
	return stream, nil
}

func (s *Service) findReusable(ctx context.Context) (*models.LiveStream, error) {
	streams, err := s.api.ListStreams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list live streams: %w", err)
	}
	return firstReusable(streams), nil
}

func firstReusable(streams []*models.LiveStream) *models.LiveStream {
	for _, st := range streams {
		if st != nil && st.Reusable() {
			return st
		}
	}
	return nil
}
