// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates there is no usable access token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates a required broadcast or stream does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed indicates the broadcast is in the wrong lifecycle state.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// UpstreamError is a non-success response from the provider.
type UpstreamError struct {
	// Operation names the provider call, e.g. "liveBroadcasts.insert".
	Operation string
	// Status is the HTTP status code, or 0 for transport failures.
	Status int
	// Reason is the provider's machine-readable reason, e.g. "invalidTransition".
	Reason string
	// Message is the provider's human-readable message.
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: upstream status %d (%s): %s", e.Operation, e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Operation, e.Status, e.Message)
}

// Temporary reports whether retrying the same request may succeed.
func (e *UpstreamError) Temporary() bool {
	switch {
	case e.Status == 0, e.Status == 429, e.Status >= 500:
		return true
	case e.Reason == "rateLimitExceeded", e.Reason == "userRateLimitExceeded", e.Reason == "backendError":
		return true
	default:
		return false
	}
}

// IsUpstream reports whether err is an UpstreamError and returns it.
func IsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
