// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package middleware provides chi-compatible HTTP middleware for Flightmap.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs in
    the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Group(func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/api/v1/health/live", handler.HealthLive)
	})

PrometheusMetrics wraps the ResponseWriter, so it must not sit in front of
the WebSocket upgrade route.
*/
package middleware
