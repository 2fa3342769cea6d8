// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package middleware provides HTTP middleware shared by the Radstream router.

Key Components:

  - RequestID: accepts a well-formed upstream X-Request-ID or generates one,
    then stores it in the request context for logging and error envelopes
  - PrometheusMetrics: request count, latency and in-flight instrumentation

Both are written as func(http.HandlerFunc) http.HandlerFunc and adapted to chi
by the api package.

Metrics are labelled with the chi route pattern (for example
/api/youtube/stream-key) rather than the raw path, so unknown paths collapse
into a single "unmatched" series.
*/
package middleware
