// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// YouTube Data API Metrics
	YouTubeCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_calls_total",
			Help: "Total number of YouTube Data API calls",
		},
		[]string{"operation", "result"}, // result: "success", "unauthorized", "client_error", "server_error", "transport_error", "rejected"
	)

	YouTubeCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_api_call_duration_seconds",
			Help:    "YouTube Data API call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"operation"},
	)

	YouTubeRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_api_retries_total",
			Help: "Total number of retried YouTube Data API calls",
		},
		[]string{"operation"},
	)

	YouTubeLimiterWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "youtube_rate_limiter_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// OAuth Metrics
	OAuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauth_events_total",
			Help: "Total number of OAuth flow events",
		},
		[]string{"event", "result"}, // event: "login", "callback", "logout", "device"
	)

	OAuthTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oauth_token_refreshes_total",
			Help: "Total number of access token refreshes",
		},
		[]string{"result"}, // result: "success", "invalid_grant", "error"
	)

	// Broadcast Lifecycle Metrics
	BroadcastsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcasts_created_total",
			Help: "Total number of broadcasts created",
		},
	)

	LiveStreamsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livestreams_created_total",
			Help: "Total number of ingestion streams created",
		},
	)

	BroadcastTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_transitions_total",
			Help: "Total number of broadcast lifecycle transitions",
		},
		[]string{"to_status", "result"},
	)

	// Token Store Metrics
	TokenStoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_store_gc_runs_total",
			Help: "Total number of token store value log GC runs",
		},
		[]string{"result"}, // result: "collected", "nothing", "error"
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "radstream_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the inbound rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordYouTubeCall records one outbound YouTube Data API call.
func RecordYouTubeCall(operation, result string, duration time.Duration) {
	YouTubeCallsTotal.WithLabelValues(operation, result).Inc()
	YouTubeCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordYouTubeRetry records a retried YouTube Data API call.
func RecordYouTubeRetry(operation string) {
	YouTubeRetries.WithLabelValues(operation).Inc()
}

// RecordLimiterWait records time blocked on the outbound rate limiter.
func RecordLimiterWait(d time.Duration) {
	YouTubeLimiterWait.Observe(d.Seconds())
}

// RecordOAuthEvent records an OAuth flow step.
func RecordOAuthEvent(event string, success bool) {
	OAuthEvents.WithLabelValues(event, resultLabel(success)).Inc()
}

// RecordTokenRefresh records an access token refresh outcome.
func RecordTokenRefresh(result string) {
	OAuthTokenRefreshes.WithLabelValues(result).Inc()
}

// RecordBroadcastCreated records a newly inserted broadcast.
func RecordBroadcastCreated() {
	BroadcastsCreated.Inc()
}

// RecordLiveStreamCreated records a newly inserted ingestion stream.
func RecordLiveStreamCreated() {
	LiveStreamsCreated.Inc()
}

// RecordTransition records a lifecycle transition attempt.
func RecordTransition(toStatus string, success bool) {
	BroadcastTransitions.WithLabelValues(toStatus, resultLabel(success)).Inc()
}

// RecordTokenStoreGC records the outcome of a value log GC pass.
func RecordTokenStoreGC(result string) {
	TokenStoreGCRuns.WithLabelValues(result).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
