// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/models"
)

// broadcastResponse wraps the current broadcast; Broadcast is null when
// there is none.
type broadcastResponse struct {
	Broadcast *models.BroadcastInfo `json:"broadcast"`
}

// LatestBroadcast returns the current broadcast without changing anything.
//
// GET /api/youtube/latest-broadcast, GET /api/broadcast/fields
func (h *Handler) LatestBroadcast(w http.ResponseWriter, r *http.Request) {
	info, err := h.broadcasts.LatestInfo(r.Context())
	if err != nil {
		respondServiceError(w, r, "latest_broadcast", err)
		return
	}
	respondJSON(w, http.StatusOK, broadcastResponse{Broadcast: info})
}

// SaveBroadcast applies {title?, description?} to the current broadcast,
// creating one when none exists.
//
// POST /api/youtube/broadcast/save, POST /api/broadcast/fields
func (h *Handler) SaveBroadcast(w http.ResponseWriter, r *http.Request) {
	var fields models.BroadcastFields
	if !decodeBody(w, r, &fields) {
		return
	}

	info, err := h.broadcasts.ResolveOrCreate(r.Context(), fields)
	if err != nil {
		respondServiceError(w, r, "save_broadcast", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("broadcast_id", info.ID).
		Bool("title_set", fields.Title != nil).
		Bool("description_set", fields.Description != nil).
		Msg("Broadcast saved")
	respondJSON(w, http.StatusOK, broadcastResponse{Broadcast: info})
}

// StreamKey returns the reusable stream key, creating the stream if needed.
//
// GET /api/youtube/stream-key
func (h *Handler) StreamKey(w http.ResponseWriter, r *http.Request) {
	info, err := h.broadcasts.GetOrCreateStreamKey(r.Context())
	if err != nil {
		respondServiceError(w, r, "stream_key", err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// PeekStreamKey returns the reusable stream key, or {} when none exists.
//
// GET /api/youtube/stream-key/peek
func (h *Handler) PeekStreamKey(w http.ResponseWriter, r *http.Request) {
	info, err := h.broadcasts.PeekStreamKey(r.Context())
	if err != nil {
		respondServiceError(w, r, "stream_key_peek", err)
		return
	}
	if info == nil {
		info = &models.StreamKeyInfo{}
	}
	respondJSON(w, http.StatusOK, info)
}

// BroadcastStatus returns the normalized lifecycle badge.
//
// GET /api/broadcast/status
func (h *Handler) BroadcastStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.broadcasts.BroadcastStatus(r.Context())
	if err != nil {
		h.respondPollError(w, r, "broadcast_status", err)
		return
	}
	h.pollFailures.Store(0)
	respondJSON(w, http.StatusOK, status)
}

// LiveStreamStatus returns the normalized ingestion status.
//
// GET /api/livestream/status
func (h *Handler) LiveStreamStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.broadcasts.LiveStreamStatus(r.Context())
	if err != nil {
		h.respondPollError(w, r, "livestream_status", err)
		return
	}
	h.pollFailures.Store(0)
	respondJSON(w, http.StatusOK, status)
}

// maxPollFailures bounds the counter; the policy is capped long before.
const maxPollFailures = 32

// respondPollError writes the error for a status poll. Transient failures
// carry a Retry-After from the polling policy that grows with each
// consecutive failed poll.
func (h *Handler) respondPollError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status, _, _ := errorStatus(err)
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		failures := h.pollFailures.Add(1)
		if failures > maxPollFailures {
			failures = maxPollFailures
			h.pollFailures.Store(maxPollFailures)
		}
		wait := h.polling.Next(int(failures))
		seconds := int64(math.Ceil(wait.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	}
	respondServiceError(w, r, action, err)
}

// StartStream binds and transitions the current broadcast to live.
// The body {streamId?} is optional.
//
// POST /api/youtube/stream/start
func (h *Handler) StartStream(w http.ResponseWriter, r *http.Request) {
	var opts models.StartOptions
	if !decodeBody(w, r, &opts) {
		return
	}

	result, err := h.broadcasts.StartStream(r.Context(), opts)
	if err != nil {
		respondServiceError(w, r, "start_stream", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// EndStream completes the live broadcast.
//
// POST /api/youtube/stream/end
func (h *Handler) EndStream(w http.ResponseWriter, r *http.Request) {
	result, err := h.broadcasts.EndStream(r.Context())
	if err != nil {
		respondServiceError(w, r, "end_stream", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
