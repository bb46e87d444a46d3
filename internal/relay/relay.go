// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package relay

import (
	"compress/flate"
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/tomtom215/flightmap/internal/logging"
	"github.com/tomtom215/flightmap/internal/metrics"
)

// ShutdownReason identifies why the relay is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Disconnect reasons reported to metrics and logs.
const (
	reasonClosed   = "closed"
	reasonShutdown = "shutdown"
)

// Options configures a Relay.
type Options struct {
	// HeartbeatInterval is the liveness sweep period. Default: 5s
	HeartbeatInterval time.Duration

	// MaxMessageSize is the largest inbound frame accepted, in bytes.
	// Larger frames close the sender's connection. Default: 64 KB
	MaxMessageSize int64

	// SendBufferSize is the per-connection outbound queue length.
	// Frames for a connection with a full queue are dropped. Default: 64
	SendBufferSize int

	// WriteWait bounds a single frame write. Default: 10s
	WriteWait time.Duration

	// HandshakeTimeout bounds the WebSocket upgrade. Default: 10s
	HandshakeTimeout time.Duration

	// ReadBufferSize and WriteBufferSize size the transport I/O buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CompressionEnabled negotiates permessage-deflate at CompressionLevel.
	CompressionEnabled bool
	CompressionLevel   int

	// AllowedOrigins lists accepted Origin headers. "*" accepts any origin,
	// including requests without one.
	AllowedOrigins []string

	// InboundRate limits "message" frames per connection per second.
	// Zero disables the limit.
	InboundRate  float64
	InboundBurst int
}

// DefaultOptions returns the relay defaults.
func DefaultOptions() Options {
	return Options{
		HeartbeatInterval:  DefaultHeartbeatInterval,
		MaxMessageSize:     64 * 1024,
		SendBufferSize:     64,
		WriteWait:          10 * time.Second,
		HandshakeTimeout:   10 * time.Second,
		ReadBufferSize:     1024,
		WriteBufferSize:    1024,
		CompressionEnabled: true,
		CompressionLevel:   3,
		AllowedOrigins:     []string{"*"},
		InboundRate:        0,
		InboundBurst:       20,
	}
}

// withDefaults fills zero values from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = d.HeartbeatInterval
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = d.MaxMessageSize
	}
	if o.SendBufferSize <= 0 {
		o.SendBufferSize = d.SendBufferSize
	}
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = d.HandshakeTimeout
	}
	if o.ReadBufferSize <= 0 {
		o.ReadBufferSize = d.ReadBufferSize
	}
	if o.WriteBufferSize <= 0 {
		o.WriteBufferSize = d.WriteBufferSize
	}
	if o.CompressionLevel < flate.HuffmanOnly || o.CompressionLevel > flate.BestCompression {
		o.CompressionLevel = d.CompressionLevel
	}
	if o.InboundBurst <= 0 {
		o.InboundBurst = d.InboundBurst
	}
	return o
}

// Relay accepts WebSocket connections and wires each one into the registry,
// the router and the liveness monitor.
type Relay struct {
	opts     Options
	registry *Registry
	router   *Router
	monitor  *Monitor
	upgrader websocket.Upgrader
	// admitMu orders Admit's pumps.Add against Shutdown setting closing.
	admitMu sync.Mutex
	closing atomic.Bool
	pumps   sync.WaitGroup
}

// New creates a Relay. A nil clock uses the real clock.
func New(opts Options, clock clockwork.Clock) *Relay {
	opts = opts.withDefaults()
	registry := NewRegistry()

	r := &Relay{
		opts:     opts,
		registry: registry,
		router:   NewRouter(registry),
		monitor:  NewMonitor(registry, opts.HeartbeatInterval, clock),
	}
	r.upgrader = websocket.Upgrader{
		ReadBufferSize:    opts.ReadBufferSize,
		WriteBufferSize:   opts.WriteBufferSize,
		HandshakeTimeout:  opts.HandshakeTimeout,
		EnableCompression: opts.CompressionEnabled,
		CheckOrigin:       r.checkOrigin,
	}
	return r
}

// Registry returns the relay's connection registry.
func (r *Relay) Registry() *Registry {
	return r.registry
}

// Monitor returns the relay's liveness monitor.
func (r *Relay) Monitor() *Monitor {
	return r.monitor
}

// ConnectionCount returns the number of open connections.
func (r *Relay) ConnectionCount() int {
	return r.registry.Len()
}

// Ready reports whether the liveness monitor is running.
func (r *Relay) Ready() bool {
	return r.monitor.Running()
}

// ServeHTTP upgrades the request to a WebSocket and admits the connection.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// The upgrader has already written the HTTP error response
		metrics.RecordUpgradeFailure()
		logging.Ctx(req.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	r.Admit(conn)
}

// Admit registers an upgraded connection and starts its read and write pumps.
// Once Shutdown has begun the connection is closed with a going-away frame
// and Admit returns nil.
func (r *Relay) Admit(conn *websocket.Conn) *Connection {
	r.admitMu.Lock()
	if r.closing.Load() {
		r.admitMu.Unlock()
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(r.opts.WriteWait))
		_ = conn.Close()
		return nil
	}

	if r.opts.CompressionEnabled {
		if err := conn.SetCompressionLevel(r.opts.CompressionLevel); err != nil {
			logging.Warn().Err(err).Int("level", r.opts.CompressionLevel).Msg("failed to set compression level")
		}
	}

	c := newConnection(conn, r.opts.SendBufferSize, r.newLimiter())
	r.registry.Add(c)
	r.pumps.Add(2)
	r.admitMu.Unlock()

	metrics.RecordConnectionOpened()
	metrics.SetActiveConnections(r.registry.Len())

	logging.Info().
		Uint64("connection_id", c.id).
		Str("correlation_id", c.correlationID).
		Str("remote_addr", conn.RemoteAddr().String()).
		Int("total_connections", r.registry.Len()).
		Msg("relay connection opened")

	go r.writePump(c)
	go r.readPump(c)
	return c
}

func (r *Relay) newLimiter() *rate.Limiter {
	if r.opts.InboundRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(r.opts.InboundRate), r.opts.InboundBurst)
}

// readPump feeds inbound frames to the router until the transport fails or
// the connection is terminated, then releases the connection.
func (r *Relay) readPump(c *Connection) {
	defer r.pumps.Done()
	defer r.release(c, reasonClosed)

	c.conn.SetReadLimit(r.opts.MaxMessageSize)

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.Closed() && websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logging.Debug().
					Err(err).
					Str("correlation_id", c.correlationID).
					Msg("unexpected websocket close")
			}
			return
		}

		if messageType != websocket.TextMessage {
			metrics.RecordInboundFrame(string(DispositionBinary))
			continue
		}
		r.router.OnMessage(c, data)
	}
}

// writePump drains the connection's queue onto the transport.
// A failed write terminates the connection; the read pump then releases it.
func (r *Relay) writePump(c *Connection) {
	defer r.pumps.Done()
	defer c.terminate()

	for {
		select {
		case <-c.done:
			return

		case frame := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(r.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logging.Debug().
					Err(err).
					Str("correlation_id", c.correlationID).
					Msg("websocket write failed")
				return
			}
		}
	}
}

// release terminates c and removes it from the registry. Only the call that
// actually removes it reports the disconnect.
func (r *Relay) release(c *Connection, reason string) {
	c.terminate()
	if !r.registry.Remove(c) {
		return
	}
	metrics.RecordConnectionClosed(reason)
	metrics.SetActiveConnections(r.registry.Len())

	logging.Info().
		Uint64("connection_id", c.id).
		Str("correlation_id", c.correlationID).
		Str("reason", reason).
		Int("total_connections", r.registry.Len()).
		Msg("relay connection closed")
}

// RunWithContext runs the liveness monitor until ctx is canceled, then closes
// every connection. This method is designed for use with suture supervision.
func (r *Relay) RunWithContext(ctx context.Context) error {
	err := r.monitor.RunWithContext(ctx)
	if ctx.Err() == nil {
		return err
	}

	count := r.registry.Len()
	r.Shutdown()

	logger := logging.WithComponent("relay")
	logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("connections_closed", count).
		Msg("relay stopped")
	return err
}

// Shutdown stops admitting connections, sends every open connection a
// going-away close frame and waits for their pumps to exit.
func (r *Relay) Shutdown() {
	r.admitMu.Lock()
	r.closing.Store(true)
	r.admitMu.Unlock()

	r.registry.ForEach(func(c *Connection) {
		c.closeWithCode(websocket.CloseGoingAway, "server shutting down", r.opts.WriteWait)
		r.release(c, reasonShutdown)
	})
	r.pumps.Wait()
}

// checkOrigin validates WebSocket connection origins against AllowedOrigins.
func (r *Relay) checkOrigin(req *http.Request) bool {
	origin := req.Header.Get("Origin")
	for _, allowed := range r.opts.AllowedOrigins {
		if allowed == "*" || (origin != "" && allowed == origin) {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}

var logValueReplacer = strings.NewReplacer("\n", "", "\r", "", "\t", " ")

// sanitizeLogValue strips control characters and truncates untrusted input
// before it is logged.
func sanitizeLogValue(s string) string {
	s = logValueReplacer.Replace(s)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// getShutdownReason determines the shutdown reason from the context error.
func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}
