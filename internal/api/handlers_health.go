// Radstream - YouTube Live Broadcast Control
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nandcello/radstream

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status         string  `json:"status"`
	Authorized     bool    `json:"authorized"`
	CircuitBreaker string  `json:"circuit_breaker"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// Health reports process health. It is always 200 while serving; an open
// YouTube circuit or a missing credential only degrades the status.
//
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	authorized := h.auth.Authorized(r.Context())

	breaker := "unknown"
	if h.circuit != nil {
		breaker = h.circuit.CircuitState()
	}

	status := "healthy"
	if breaker == "open" || !authorized {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, HealthStatus{
		Status:         status,
		Authorized:     authorized,
		CircuitBreaker: breaker,
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	})
}

// PollingPolicy hands the UI its status polling intervals.
//
// GET /api/ui/polling
func (h *Handler) PollingPolicy(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.polling.View())
}
