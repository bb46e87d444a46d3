// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package api

import (
	"net/http"
	"time"
)

// RelayHandler is the relay surface the API needs: the upgrade handler plus
// the state reported by the health endpoints.
type RelayHandler interface {
	http.Handler
	ConnectionCount() int
	Ready() bool
}

// Handler serves the non-WebSocket endpoints.
type Handler struct {
	relay     RelayHandler
	startTime time.Time
}

// NewHandler creates a Handler reporting on relay.
func NewHandler(relay RelayHandler) *Handler {
	return &Handler{
		relay:     relay,
		startTime: time.Now(),
	}
}

// HealthStatus is the payload of both health endpoints.
type HealthStatus struct {
	Status      string  `json:"status"`
	Connections int     `json:"connections"`
	Uptime      float64 `json:"uptime_seconds"`
}

// HealthLive handles liveness probe requests.
// It returns 200 whenever the process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.status("alive"))
}

// HealthReady handles readiness probe requests.
// It returns 200 once the liveness monitor is running, 503 before that and
// after shutdown has begun.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.relay.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, &APIResponse{
			Success: false,
			Data:    h.status("not_ready"),
			Error: &APIError{
				Code:    "NOT_READY",
				Message: "Relay heartbeat monitor is not running",
			},
		})
		return
	}
	respondSuccess(w, http.StatusOK, h.status("ready"))
}

func (h *Handler) status(s string) HealthStatus {
	return HealthStatus{
		Status:      s,
		Connections: h.relay.ConnectionCount(),
		Uptime:      time.Since(h.startTime).Seconds(),
	}
}
