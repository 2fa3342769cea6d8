// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nandcello/radstream/internal/models"
	"github.com/nandcello/radstream/internal/polling"
)

// BroadcastService is the broadcast/stream orchestration the handlers call.
// *broadcast.Service implements it.
type BroadcastService interface {
	LatestInfo(ctx context.Context) (*models.BroadcastInfo, error)
	ResolveOrCreate(ctx context.Context, fields models.BroadcastFields) (*models.BroadcastInfo, error)
	GetOrCreateStreamKey(ctx context.Context) (*models.StreamKeyInfo, error)
	PeekStreamKey(ctx context.Context) (*models.StreamKeyInfo, error)
	BroadcastStatus(ctx context.Context) (*models.BroadcastStatus, error)
	LiveStreamStatus(ctx context.Context) (*models.LiveStreamStatus, error)
	StartStream(ctx context.Context, opts models.StartOptions) (*models.StartResult, error)
	EndStream(ctx context.Context) (*models.EndResult, error)
}

// AuthFlow is the browser OAuth flow. *auth.GoogleFlow implements it.
type AuthFlow interface {
	Begin() (authURL string, cookie *http.Cookie, err error)
	ClearStateCookie() *http.Cookie
	Complete(ctx context.Context, r *http.Request) error
	Logout(ctx context.Context) error
}

// AuthStatus reports whether a usable credential is stored.
// *auth.TokenManager implements it.
type AuthStatus interface {
	Authorized(ctx context.Context) bool
}

// CircuitReporter exposes the YouTube client's breaker state.
type CircuitReporter interface {
	CircuitState() string
}

// HandlerConfig wires a Handler.
type HandlerConfig struct {
	Broadcasts        BroadcastService
	Flow              AuthFlow
	Auth              AuthStatus
	Circuit           CircuitReporter
	Polling           polling.Policy
	PostLoginRedirect string
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_youtube.go: broadcast, stream key, status and lifecycle endpoints
//   - handlers_oauth.go: Google sign-in, callback and sign-out
//   - handlers_health.go: health and UI polling policy
type Handler struct {
	broadcasts        BroadcastService
	flow              AuthFlow
	auth              AuthStatus
	circuit           CircuitReporter
	polling           polling.Policy
	postLoginRedirect string
	startTime         time.Time

	// pollFailures counts consecutive transient failures of the status
	// endpoints. It sizes the Retry-After hint.
	pollFailures atomic.Int32
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	redirect := cfg.PostLoginRedirect
	if redirect == "" {
		redirect = "/"
	}
	return &Handler{
		broadcasts:        cfg.Broadcasts,
		flow:              cfg.Flow,
		auth:              cfg.Auth,
		circuit:           cfg.Circuit,
		polling:           cfg.Polling,
		postLoginRedirect: redirect,
		startTime:         time.Now(),
	}
}
