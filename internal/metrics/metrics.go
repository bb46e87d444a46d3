// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Relay connection lifecycle
// - Inbound frame classification and broadcast fan-out
// - Liveness sweeps and evictions
// - API endpoint latency and throughput

var (
	// Relay Connection Metrics
	RelayConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connections_active",
			Help: "Current number of open relay connections",
		},
	)

	RelayConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_connections_total",
			Help: "Total number of relay connections admitted",
		},
	)

	RelayDisconnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_disconnections_total",
			Help: "Total number of relay connections removed, by reason",
		},
		[]string{"reason"}, // "closed", "evicted", "shutdown"
	)

	RelayUpgradeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_upgrade_failures_total",
			Help: "Total number of failed WebSocket upgrades",
		},
	)

	// Relay Frame Metrics
	RelayInboundFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_inbound_frames_total",
			Help: "Total number of inbound frames, by router disposition",
		},
		[]string{"disposition"}, // "broadcast", "pong", "malformed", "ignored", "rate_limited", "binary"
	)

	RelayBroadcastDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_broadcast_deliveries_total",
			Help: "Total number of broadcast frames queued to recipients",
		},
	)

	RelayBroadcastSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_broadcast_skipped_total",
			Help: "Total number of broadcast frames dropped for recipients that were not write-ready",
		},
	)

	RelayBroadcastFanout = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_broadcast_fanout",
			Help:    "Number of recipients per broadcast",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Liveness Metrics
	HeartbeatSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_heartbeat_sweeps_total",
			Help: "Total number of liveness sweeps",
		},
	)

	HeartbeatSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_heartbeat_sweep_duration_seconds",
			Help:    "Duration of liveness sweeps in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	HeartbeatProbes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_heartbeat_probes_total",
			Help: "Total number of ping probes attempted",
		},
	)

	HeartbeatProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_heartbeat_probe_failures_total",
			Help: "Total number of ping probes that could not be queued",
		},
	)

	HeartbeatEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_heartbeat_evictions_total",
			Help: "Total number of connections evicted for missing a heartbeat",
		},
	)

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
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordConnectionOpened counts an admitted relay connection.
func RecordConnectionOpened() {
	RelayConnectionsTotal.Inc()
}

// RecordConnectionClosed counts a removed relay connection.
func RecordConnectionClosed(reason string) {
	RelayDisconnectionsTotal.WithLabelValues(reason).Inc()
	if reason == "evicted" {
		HeartbeatEvictions.Inc()
	}
}

// SetActiveConnections sets the open connection gauge.
func SetActiveConnections(n int) {
	RelayConnectionsActive.Set(float64(n))
}

// RecordUpgradeFailure counts a failed WebSocket upgrade.
func RecordUpgradeFailure() {
	RelayUpgradeFailures.Inc()
}

// RecordInboundFrame counts an inbound frame by router disposition.
func RecordInboundFrame(disposition string) {
	RelayInboundFrames.WithLabelValues(disposition).Inc()
}

// RecordBroadcast records the outcome of one broadcast fan-out.
func RecordBroadcast(delivered, skipped int) {
	RelayBroadcastDeliveries.Add(float64(delivered))
	RelayBroadcastSkipped.Add(float64(skipped))
	RelayBroadcastFanout.Observe(float64(delivered + skipped))
}

// RecordSweep records one liveness sweep.
// Evictions are counted through RecordConnectionClosed.
func RecordSweep(duration time.Duration, probed, probeFailures int) {
	HeartbeatSweeps.Inc()
	HeartbeatSweepDuration.Observe(duration.Seconds())
	HeartbeatProbes.Add(float64(probed))
	HeartbeatProbeFailures.Add(float64(probeFailures))
}

// RecordAPIRequest records metrics for an API request
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
