// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/nandcello/radstream/internal/models"
)

// ErrCircuitOpen is returned without contacting the provider while the
// circuit breaker is open or saturated in half-open state.
var ErrCircuitOpen = errors.New("youtube api unavailable: circuit open")

// mapError translates a provider or transport failure into the models error
// taxonomy. ctx is the caller's context, used to tell caller cancellation
// apart from the per-call timeout.
func mapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrUnauthorized) {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized {
			return fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
		}
		ue := &models.UpstreamError{
			Operation: op,
			Status:    gerr.Code,
			Message:   gerr.Message,
		}
		if len(gerr.Errors) > 0 {
			ue.Reason = gerr.Errors[0].Reason
			if ue.Message == "" {
				ue.Message = gerr.Errors[0].Message
			}
		}
		if ue.Message == "" {
			ue.Message = http.StatusText(gerr.Code)
		}
		return ue
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &models.UpstreamError{Operation: op, Message: "request timed out"}
	}
	return &models.UpstreamError{Operation: op, Message: err.Error()}
}

// countsAsFailure reports whether err should move the breaker toward open.
// Client errors (4xx other than 429) and missing credentials say nothing
// about provider health.
func countsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, models.ErrUnauthorized) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, models.ErrNotFound) {
		return false
	}
	if ue, ok := models.IsUpstream(err); ok {
		return ue.Status == 0 || ue.Status == http.StatusTooManyRequests || ue.Status >= 500
	}
	return true
}

// retryable reports whether a read may be retried after err.
func retryable(err error) bool {
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}
	ue, ok := models.IsUpstream(err)
	return ok && ue.Temporary()
}
