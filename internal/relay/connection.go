// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package relay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/flightmap/internal/logging"
)

// connectionIDCounter hands out monotonically increasing connection IDs so
// snapshots can be ordered deterministically.
var connectionIDCounter atomic.Uint64

// Connection is one accepted WebSocket session.
//
// Outbound frames go through a bounded queue drained by the write pump.
// The queue is never closed; done signals shutdown instead, so a broadcast
// racing with a close can never panic on a closed channel.
type Connection struct {
	id            uint64
	correlationID string
	conn          *websocket.Conn
	send          chan []byte
	done          chan struct{}
	closeOnce     sync.Once
	limiter       *rate.Limiter
}

// newConnection wraps conn. conn may be nil for connections that are only
// driven through their send queue.
func newConnection(conn *websocket.Conn, sendBuffer int, limiter *rate.Limiter) *Connection {
	if sendBuffer <= 0 {
		sendBuffer = 1
	}
	return &Connection{
		id:            connectionIDCounter.Add(1),
		correlationID: logging.GenerateCorrelationID(),
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		done:          make(chan struct{}),
		limiter:       limiter,
	}
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() uint64 {
	return c.id
}

// CorrelationID returns the short ID used to tag this connection's log lines.
func (c *Connection) CorrelationID() string {
	return c.correlationID
}

// Closed reports whether the connection has been terminated.
func (c *Connection) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// trySend queues frame without blocking. It returns false when the
// connection is closed or its queue is full.
func (c *Connection) trySend(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// allowBroadcast applies the optional inbound throttle.
func (c *Connection) allowBroadcast() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

// terminate releases the transport. Safe to call from any goroutine, any
// number of times; only the first call has an effect.
func (c *Connection) terminate() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close() // Explicitly ignore error - best-effort cleanup
		}
	})
}

// closeWithCode sends a close frame before terminating.
// WriteControl is safe to call concurrently with the write pump.
func (c *Connection) closeWithCode(code int, reason string, wait time.Duration) {
	if c.conn != nil && !c.Closed() {
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wait))
	}
	c.terminate()
}
