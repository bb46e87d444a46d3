// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/flightmap/internal/config"
	"github.com/tomtom215/flightmap/internal/logging"
	"github.com/tomtom215/flightmap/internal/middleware"
)

// staticCompressionLevel is the gzip level for static assets.
const staticCompressionLevel = 5

// Router wires HTTP routes to the relay and the health handlers.
type Router struct {
	handler       *Handler
	relay         RelayHandler
	chiMiddleware *ChiMiddleware
	server        config.ServerConfig
}

// NewRouter creates a Router from the loaded configuration.
func NewRouter(cfg *config.Config, relay RelayHandler) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Security.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Security.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.Security.RateLimitDisabled

	return &Router{
		handler:       NewHandler(relay),
		relay:         relay,
		chiMiddleware: NewChiMiddleware(mwConfig),
		server:        cfg.Server,
	}
}

// SetupChi configures all HTTP routes.
//
// The WebSocket routes sit outside PrometheusMetrics, Timeout and Compress:
// each of them wraps the ResponseWriter, and the upgrade needs the
// underlying connection.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	// WebSocket relay; both upgrade routes share one limiter
	wsLimit := router.chiMiddleware.RateLimitWebSocket()
	r.With(wsLimit).Get("/ws", router.relay.ServeHTTP)

	// Health endpoints
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Timeout(router.server.Timeout))
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Prometheus scrape endpoint
	r.With(router.chiMiddleware.RateLimitByIP()).Handle("/metrics", promhttp.Handler())

	router.mountStatic(r, wsLimit)

	return r
}

// mountStatic serves the static asset directory at "/". WebSocket upgrades
// arriving at any path under it are handed to the relay, so clients that
// connect to the page origin without a path keep working.
func (router *Router) mountStatic(r chi.Router, wsLimit func(http.Handler) http.Handler) {
	upgrade := router.upgradeToRelay(wsLimit)
	staticDir := router.server.StaticDir

	info, err := os.Stat(staticDir)
	if staticDir == "" || err != nil || !info.IsDir() {
		if staticDir != "" {
			logging.Warn().Str("static_dir", staticDir).Msg("Static directory not found, static file serving disabled")
		}
		r.With(upgrade).Get("/*", http.NotFound)
		return
	}

	logging.Info().Str("static_dir", staticDir).Msg("Serving static files")
	r.With(
		upgrade,
		APISecurityHeaders(),
		router.chiMiddleware.RateLimitByIP(),
		chimiddleware.Compress(staticCompressionLevel),
	).Handle("/*", http.FileServer(http.Dir(staticDir)))
}

// upgradeToRelay diverts WebSocket upgrade requests to the relay through
// limit, leaving plain requests for the next handler.
func (router *Router) upgradeToRelay(limit func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	relay := limit(router.relay)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				relay.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
