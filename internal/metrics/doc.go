// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

Relay connection metrics:
  - relay_connections_active: Open connections (gauge)
  - relay_connections_total: Admitted connections (counter)
  - relay_disconnections_total: Removed connections (counter)
    Labels: reason (closed, evicted, shutdown)
  - relay_upgrade_failures_total: Failed WebSocket upgrades (counter)

Relay frame metrics:
  - relay_inbound_frames_total: Inbound frames (counter)
    Labels: disposition (broadcast, pong, malformed, ignored, rate_limited, binary)
  - relay_broadcast_deliveries_total: Frames queued to recipients (counter)
  - relay_broadcast_skipped_total: Frames dropped for recipients that were not write-ready (counter)
  - relay_broadcast_fanout: Recipients per broadcast (histogram)

Liveness metrics:
  - relay_heartbeat_sweeps_total: Sweeps run (counter)
  - relay_heartbeat_sweep_duration_seconds: Sweep duration (histogram)
  - relay_heartbeat_probes_total: Pings attempted (counter)
  - relay_heartbeat_probe_failures_total: Pings that could not be queued (counter)
  - relay_heartbeat_evictions_total: Connections evicted for a missed pong (counter)

HTTP metrics:
  - api_requests_total: Requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)

# Example Queries

	# Eviction rate over 5 minutes
	rate(relay_heartbeat_evictions_total[5m])

	# Share of broadcast frames dropped for slow recipients
	rate(relay_broadcast_skipped_total[5m]) /
	  (rate(relay_broadcast_deliveries_total[5m]) + rate(relay_broadcast_skipped_total[5m]))

Thread Safety:

All recording functions are safe for concurrent use; the Prometheus client
handles synchronization.
*/
package metrics
