// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package models

import (
	"fmt"
	"strings"
	"testing"
)

func TestUpstreamError_Temporary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  UpstreamError
		want bool
	}{
		{"transport failure", UpstreamError{Status: 0}, true},
		{"too many requests", UpstreamError{Status: 429}, true},
		{"server error", UpstreamError{Status: 503}, true},
		{"quota reason on 403", UpstreamError{Status: 403, Reason: "rateLimitExceeded"}, true},
		{"backend error reason", UpstreamError{Status: 400, Reason: "backendError"}, true},
		{"forbidden", UpstreamError{Status: 403, Reason: "forbidden"}, false},
		{"invalid transition", UpstreamError{Status: 403, Reason: "invalidTransition"}, false},
		{"not found", UpstreamError{Status: 404}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Temporary(); got != tt.want {
				t.Errorf("Temporary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpstreamError_Error(t *testing.T) {
	t.Parallel()

	err := &UpstreamError{Operation: "liveBroadcasts.transition", Status: 403, Reason: "invalidTransition", Message: "Invalid transition"}
	msg := err.Error()
	for _, want := range []string{"liveBroadcasts.transition", "403", "invalidTransition", "Invalid transition"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestIsUpstream(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("start stream: %w", &UpstreamError{Status: 502, Message: "bad gateway"})
	ue, ok := IsUpstream(wrapped)
	if !ok || ue.Status != 502 {
		t.Fatalf("IsUpstream() = %v, %v", ue, ok)
	}

	if _, ok := IsUpstream(ErrNotFound); ok {
		t.Error("IsUpstream(ErrNotFound) = true")
	}
}
