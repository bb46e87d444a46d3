// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package api provides the HTTP surface of Flightmap using the Chi router.

# Routes

	GET /ws                  WebSocket relay (per-IP upgrade rate limit)
	GET /api/v1/health/live  liveness probe, always 200
	GET /api/v1/health/ready readiness probe, 503 until the heartbeat monitor runs
	GET /metrics             Prometheus exposition
	GET /*                   static assets from server.static_dir, gzip-compressed

A WebSocket upgrade arriving at any static path, including "/", is handed to
the relay as well, so a page can connect back to its own origin without a
path.

# Middleware

Applied globally in order: RequestID, RealIP, Recoverer, CORS. Health
routes add per-IP rate limiting, security headers, Prometheus request
metrics and a request timeout. The upgrade routes carry only the rate
limiter, because the other wrappers hide http.Hijacker from the upgrader.

# Responses

JSON endpoints share one envelope, encoded with goccy/go-json:

	{"success":true,"data":{"status":"ready","connections":12,"uptime_seconds":41.2},
	 "meta":{"timestamp":"2026-01-01T00:00:00Z"}}
*/
package api
