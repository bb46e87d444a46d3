// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in errors
// come from koanf struct tags, so a failure reads as the config key an
// operator would edit:
//
//	relay.heartbeat_interval must be greater than or equal to 100ms
//
// # Custom Tags
//
//   - loglevel: a level name accepted by the logging package
//   - origin: "*" or a bare http(s) origin, used with dive on origin lists
//
// # Usage
//
//	type RelayConfig struct {
//	    HeartbeatInterval time.Duration `koanf:"heartbeat_interval" validate:"gte=100ms"`
//	    AllowedOrigins    []string      `koanf:"allowed_origins" validate:"min=1,dive,origin"`
//	}
//
//	if err := validation.ValidateStruct(cfg); err != nil {
//	    var fields validation.Errors
//	    errors.As(err, &fields) // one FieldError per failed field
//	}
package validation
