// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package relay

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/flightmap/internal/logging"
	"github.com/tomtom215/flightmap/internal/metrics"
)

// DefaultHeartbeatInterval is the sweep period used when none is configured.
const DefaultHeartbeatInterval = 5 * time.Second

// ErrMonitorRunning is returned when a second sweep loop is started on the
// same Monitor.
var ErrMonitorRunning = errors.New("liveness monitor already running")

// SweepResult summarizes one liveness sweep.
type SweepResult struct {
	Probed        int
	Evicted       int
	ProbeFailures int
}

// Monitor probes every registered connection on a fixed period and evicts
// those that did not answer the previous probe.
//
// Each connection moves ALIVE -> SUSPECT when probed and back to ALIVE when
// its pong arrives. A connection still SUSPECT at the next sweep is evicted,
// so a dead peer is detected within two periods with no per-connection timers.
type Monitor struct {
	registry *Registry
	interval time.Duration
	clock    clockwork.Clock
	running  atomic.Bool
}

// NewMonitor creates a Monitor. A nil clock uses the real clock.
func NewMonitor(registry *Registry, interval time.Duration, clock clockwork.Clock) *Monitor {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Monitor{
		registry: registry,
		interval: interval,
		clock:    clock,
	}
}

// Interval returns the sweep period.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Running reports whether the sweep loop is active.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// Sweep runs one liveness pass over a snapshot of the registry.
//
// A connection whose flag is already false is terminated and removed without
// being probed. Every other connection is marked suspect and sent a ping. A
// ping that cannot be queued is counted as a probe failure only; the
// connection stays suspect and the next sweep decides its fate.
func (m *Monitor) Sweep() SweepResult {
	start := m.clock.Now()
	var res SweepResult

	m.registry.ForEach(func(c *Connection) {
		wasAlive, present := m.registry.suspect(c)
		if !present {
			return // closed during this pass
		}

		if !wasAlive {
			c.terminate()
			if m.registry.Remove(c) {
				res.Evicted++
				metrics.RecordConnectionClosed("evicted")
				logging.Info().
					Uint64("connection_id", c.id).
					Str("correlation_id", c.correlationID).
					Msg("evicted unresponsive connection")
			}
			return
		}

		res.Probed++
		if !c.trySend(pingFrame) {
			res.ProbeFailures++
		}
	})

	metrics.SetActiveConnections(m.registry.Len())
	metrics.RecordSweep(m.clock.Since(start), res.Probed, res.ProbeFailures)
	return res
}

// RunWithContext sweeps on every tick until ctx is canceled.
// This method is designed for use with suture supervision.
// It returns ctx.Err() on shutdown, or ErrMonitorRunning if the loop is
// already active.
func (m *Monitor) RunWithContext(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return ErrMonitorRunning
	}
	defer m.running.Store(false)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	logger := logging.WithComponent("liveness-monitor")
	logger.Info().
		Dur("interval", m.interval).
		Msg("liveness monitor started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().
				Str("reason", string(getShutdownReason(ctx))).
				Msg("liveness monitor stopped")
			return ctx.Err()

		case <-ticker.Chan():
			res := m.Sweep()
			if res.Evicted > 0 || res.ProbeFailures > 0 {
				logger.Debug().
					Int("probed", res.Probed).
					Int("evicted", res.Evicted).
					Int("probe_failures", res.ProbeFailures).
					Msg("liveness sweep completed")
			}
		}
	}
}
