// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package api provides the HTTP JSON layer for Radstream.

Routes:

  - GET  /api/youtube/auth-status
  - GET  /api/oauth/google/login, GET /api/oauth/google/callback, POST /api/oauth/google/logout
  - GET  /api/youtube/latest-broadcast, GET /api/broadcast/fields
  - POST /api/youtube/broadcast/save, POST /api/broadcast/fields
  - GET  /api/youtube/stream-key, GET /api/youtube/stream-key/peek
  - GET  /api/broadcast/status, GET /api/livestream/status
  - POST /api/youtube/stream/start, POST /api/youtube/stream/end
  - GET  /api/ui/polling
  - GET  /api/v1/health, GET /metrics

Successful responses are the bare JSON object of each route. Failures use
the envelope {"success":false,"error":{"code","message","request_id"}}:

	Unauthorized        401 UNAUTHORIZED
	NotFound            404 NOT_FOUND
	PreconditionFailed  412 PRECONDITION_FAILED
	UpstreamError       502 UPSTREAM_ERROR (provider message passed through)
	circuit open        503 SERVICE_UNAVAILABLE
	bad body            400 BAD_REQUEST / VALIDATION_ERROR
	cross-site request  403 FORBIDDEN
	non-JSON body       415 UNSUPPORTED_MEDIA_TYPE
	anything else       500 INTERNAL_ERROR

Middleware (in order): request ID, real IP, panic recovery, CORS, Prometheus
metrics, then per-group httprate limits and security headers. Routes with
side effects also run SameOrigin and RequireJSON. Failed status polls
answer with a Retry-After taken from the polling policy.
*/
package api
