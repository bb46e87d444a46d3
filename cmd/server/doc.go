// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package main is the entry point for the Flightmap server.

Flightmap serves a flight map page and relays flight path messages between
every browser connected to it over WebSocket. A message sent by one client
is delivered to all clients, the sender included. Clients that stop
answering heartbeat pings are evicted within two heartbeat intervals.

# Application Architecture

	RootSupervisor ("flightmap")
	├── MessagingSupervisor ("messaging-layer")
	│   └── Relay (heartbeat monitor, connection teardown)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (/ws, health, /metrics, static assets)

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Relay: registry, router and liveness monitor
 4. HTTP router: chi with request ID, CORS, rate limiting
 5. Supervisor tree: suture v4

# Configuration

	PORT=3857                     # listen port (EPSG:3857 reference)
	HTTP_HOST=0.0.0.0
	STATIC_DIR=dist               # served at /
	HEARTBEAT_INTERVAL=5s
	RELAY_ALLOWED_ORIGINS=*       # comma-separated origins
	RELAY_MAX_MESSAGE_SIZE=65536
	LOG_LEVEL=info
	LOG_FORMAT=json

See package config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The relay closes every
connection with a 1001 going-away frame and the HTTP server drains
in-flight requests for up to SUPERVISOR_SHUTDOWN_TIMEOUT.

# Example Usage

	STATIC_DIR=./dist LOG_FORMAT=console ./flightmap

	docker run -d -p 3857:3857 -e ENVIRONMENT=production \
	  -e RELAY_ALLOWED_ORIGINS=https://map.example.com \
	  ghcr.io/tomtom215/flightmap
*/
package main
