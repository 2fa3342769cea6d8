// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

/*
Package metrics provides Prometheus instruments for Radstream.

All collectors are registered on the default registry through promauto and
exposed at /metrics:

	curl http://localhost:3000/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

YouTube Data API:
  - youtube_api_calls_total{operation, result}
  - youtube_api_call_duration_seconds{operation}
  - youtube_api_retries_total{operation}
  - youtube_rate_limiter_wait_seconds

Circuit breaker:
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

OAuth and lifecycle:
  - oauth_events_total{event, result}
  - oauth_token_refreshes_total{result}
  - broadcasts_created_total
  - livestreams_created_total
  - broadcast_transitions_total{to_status, result}
  - token_store_gc_runs_total{result}

Helpers named RecordX wrap the raw collectors so call sites stay one line.
*/
package metrics
