// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package config provides centralized configuration management for Flightmap.

# Configuration Sources

Configuration is layered with Koanf v2, later sources overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/flightmap/config.yaml or /etc/flightmap/config.yml
 3. Environment variables

Only the environment variables listed in envMappings are read. PORT is
applied last so it wins over HTTP_PORT. Comma-separated values are split for
list settings (RELAY_ALLOWED_ORIGINS, CORS_ORIGINS).

# Configuration Structure

  - ServerConfig: listen address, request timeout, static asset directory
  - RelayConfig: heartbeat interval, frame size limit, send queue length,
    compression, allowed origins and inbound rate limit
  - SecurityConfig: per-IP HTTP rate limiting and CORS origins
  - LoggingConfig: level, format and caller info
  - SupervisorConfig: suture failure threshold, decay, backoff and shutdown timeout

# Example config.yaml

	server:
	  port: 3857
	  static_dir: dist
	relay:
	  heartbeat_interval: 5s
	  allowed_origins:
	    - https://map.example.com
	logging:
	  level: info
	  format: json

# Validation

Field constraints are declared as validate tags and checked through the
validation package; errors name the config key, e.g.
"relay.heartbeat_interval must be greater than or equal to 100ms". Rules that
span more than one field (rate limit bounds, write wait versus heartbeat) are
checked afterwards.
*/
package config
