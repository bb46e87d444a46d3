// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package relay

import (
	"github.com/tomtom215/flightmap/internal/logging"
	"github.com/tomtom215/flightmap/internal/metrics"
)

// Disposition records what the router did with an inbound frame.
type Disposition string

const (
	DispositionBroadcast   Disposition = "broadcast"
	DispositionPong        Disposition = "pong"
	DispositionMalformed   Disposition = "malformed"
	DispositionIgnored     Disposition = "ignored"
	DispositionRateLimited Disposition = "rate_limited"
	DispositionBinary      Disposition = "binary"
)

// Router classifies inbound frames and fans broadcasts out to the registry.
type Router struct {
	registry *Registry
}

// NewRouter creates a Router over registry.
func NewRouter(registry *Registry) *Router {
	return &Router{registry: registry}
}

// OnMessage handles one inbound text frame from source.
//
// A "message" frame is forwarded byte-for-byte to every registered connection,
// the sender included. Recipients that are closed or whose queue is full are
// skipped. Nothing is ever sent back to the sender as an acknowledgement.
func (r *Router) OnMessage(source *Connection, raw []byte) Disposition {
	env, err := ParseEnvelope(raw)
	if err != nil {
		logging.Debug().
			Err(err).
			Str("correlation_id", source.correlationID).
			Int("bytes", len(raw)).
			Msg("dropping malformed frame")
		return r.record(DispositionMalformed)
	}

	switch env.Type {
	case MessageTypePong:
		r.registry.MarkAlive(source)
		return r.record(DispositionPong)

	case MessageTypeMessage:
		if !source.allowBroadcast() {
			logging.Debug().
				Str("correlation_id", source.correlationID).
				Msg("inbound rate limit exceeded, dropping broadcast")
			return r.record(DispositionRateLimited)
		}
		r.broadcast(raw)
		return r.record(DispositionBroadcast)

	default:
		return r.record(DispositionIgnored)
	}
}

// broadcast queues raw on every registered connection.
func (r *Router) broadcast(raw []byte) {
	var delivered, skipped int
	r.registry.ForEach(func(c *Connection) {
		if c.trySend(raw) {
			delivered++
			return
		}
		skipped++
	})

	metrics.RecordBroadcast(delivered, skipped)
	if skipped > 0 {
		logging.Debug().
			Int("delivered", delivered).
			Int("skipped", skipped).
			Msg("broadcast skipped recipients that were not write-ready")
	}
}

func (r *Router) record(d Disposition) Disposition {
	metrics.RecordInboundFrame(string(d))
	return d
}
