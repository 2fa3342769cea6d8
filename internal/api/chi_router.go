// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nandcello/radstream/internal/middleware"
)

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	mw := router.chiMiddleware

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // global so OPTIONS preflight is answered
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
	})

	// ========================
	// Google OAuth
	// ========================
	r.Route("/api/oauth/google", func(r chi.Router) {
		r.Use(mw.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Get("/login", h.OAuthLogin)
		// The callback arrives as a cross-site redirect from Google.
		r.Get("/callback", h.OAuthCallback)
		r.With(mw.SameOrigin()).Post("/logout", h.OAuthLogout)
	})

	// ========================
	// Broadcast control
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())

		r.Get("/api/ui/polling", h.PollingPolicy)

		r.Route("/api/youtube", func(r chi.Router) {
			r.Get("/auth-status", h.AuthStatus)
			r.Get("/latest-broadcast", h.LatestBroadcast)
			r.Get("/stream-key/peek", h.PeekStreamKey)

			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimitWrite())
				r.Use(mw.SameOrigin())
				r.Use(RequireJSON())
				r.Post("/broadcast/save", h.SaveBroadcast)
				r.Get("/stream-key", h.StreamKey)
				r.Post("/stream/start", h.StartStream)
				r.Post("/stream/end", h.EndStream)
			})
		})

		r.Route("/api/broadcast", func(r chi.Router) {
			r.Get("/fields", h.LatestBroadcast)
			r.With(mw.RateLimitWrite(), mw.SameOrigin(), RequireJSON()).Post("/fields", h.SaveBroadcast)
			r.Get("/status", h.BroadcastStatus)
		})

		r.Get("/api/livestream/status", h.LiveStreamStatus)
	})

	return r
}
