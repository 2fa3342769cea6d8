// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package youtube wraps the liveBroadcasts and liveStreams endpoints of the
YouTube Data API v3.

Client converts provider resources into internal/models snapshots and maps
provider failures onto the models error taxonomy:

  - HTTP 401, or no stored credential: models.ErrUnauthorized
  - any other non-2xx response: *models.UpstreamError with status and reason
  - network failures and timeouts: *models.UpstreamError with Status 0
  - an open circuit breaker: ErrCircuitOpen

Resilience:

Every call waits on a token-bucket limiter, runs under a per-call timeout and
passes through a circuit breaker named "youtube_api". Only infrastructure
failures (5xx, 429, transport errors) count toward tripping the breaker, so a
burst of invalid transitions cannot take the API offline for the process.

List and get calls are retried with exponential backoff when the failure is
transient. Insert, update, bind and transition calls are never retried because
the provider offers no idempotency key for them.

Authentication:

Requests are authorized per call through a TokenProvider (normally
*auth.TokenManager), so refreshed tokens are picked up without rebuilding the
client.
*/
package youtube
