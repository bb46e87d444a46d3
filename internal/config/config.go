// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml) for persistent settings
//  3. Environment Variables: override any setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	addr := cfg.Server.Address()
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Relay      RelayConfig      `koanf:"relay"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=1s"`

	// StaticDir is served at "/". Empty disables static file serving.
	StaticDir string `koanf:"static_dir"`

	// Environment mode: "development", "staging", "production" (default: "development")
	Environment string `koanf:"environment" validate:"oneof=development staging production"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// RelayConfig holds WebSocket relay settings.
type RelayConfig struct {
	// HeartbeatInterval is the liveness sweep period. A silent client is
	// evicted within two intervals.
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval" validate:"gte=100ms,lte=10m"`

	// MaxMessageSize is the largest inbound frame in bytes; larger frames
	// close the sender's connection.
	MaxMessageSize int64 `koanf:"max_message_size" validate:"min=256,max=16777216"`

	// SendBufferSize is the per-connection outbound queue length.
	SendBufferSize int `koanf:"send_buffer_size" validate:"min=1,max=65536"`

	WriteWait        time.Duration `koanf:"write_wait" validate:"gte=100ms"`
	HandshakeTimeout time.Duration `koanf:"handshake_timeout" validate:"gte=100ms"`

	// CompressionEnabled negotiates permessage-deflate.
	CompressionEnabled bool `koanf:"compression_enabled"`

	// CompressionLevel is a compress/flate level (-2 to 9).
	CompressionLevel int `koanf:"compression_level" validate:"min=-2,max=9"`

	// AllowedOrigins lists accepted WebSocket Origin headers. "*" accepts all.
	AllowedOrigins []string `koanf:"allowed_origins" validate:"min=1,dive,origin"`

	// InboundRate limits broadcast frames per connection per second; 0 disables.
	InboundRate  float64 `koanf:"inbound_rate" validate:"gte=0"`
	InboundBurst int     `koanf:"inbound_burst" validate:"min=1"`
}

// SecurityConfig holds HTTP-level protection settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins" validate:"dive,origin"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"loglevel"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file:line in log output.
	Caller bool `koanf:"caller"`
}

// SupervisorConfig holds suture supervisor tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gt=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gt=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gt=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gte=1s"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
