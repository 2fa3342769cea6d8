// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/nandcello/radstream/internal/logging"
	"github.com/nandcello/radstream/internal/models"
	"github.com/nandcello/radstream/internal/youtube"
)

// errorStatus maps a service error onto an HTTP status, code and message.
// Provider messages are passed through; anything unclassified becomes a 500
// without leaking internals.
func errorStatus(err error) (int, string, string) {
	var upstream *models.UpstreamError

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, ErrCodeUnauthorized, "YouTube authorization required"
	case errors.Is(err, youtube.ErrCircuitOpen):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "YouTube API temporarily unavailable"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, err.Error()
	case errors.Is(err, models.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, ErrCodePreconditionFailed, err.Error()
	case errors.As(err, &upstream):
		message := upstream.Message
		if message == "" {
			message = http.StatusText(http.StatusBadGateway)
		}
		return http.StatusBadGateway, ErrCodeExternalServiceFail, message
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, ErrCodeInternalError, "internal error"
	}
}

// respondServiceError logs err and writes the mapped error envelope.
func respondServiceError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status, code, message := errorStatus(err)

	event := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Str("action", action).
		Int("status", status).
		Msg("Request failed")

	respondError(w, r, status, code, message, nil)
}
