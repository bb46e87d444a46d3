// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/flightmap/internal/validation"
)

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// Validate checks field constraints from struct tags, then the rules that
// span more than one field.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateRelayTimings()
}

// validateRateLimits checks rate limit bounds unless rate limiting is disabled.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateRelayTimings bounds the write deadline by the eviction window of
// two heartbeat intervals.
func (c *Config) validateRelayTimings() error {
	if c.Relay.WriteWait > c.Relay.HeartbeatInterval*2 {
		return fmt.Errorf("relay.write_wait (%v) must not exceed twice relay.heartbeat_interval (%v)",
			c.Relay.WriteWait, c.Relay.HeartbeatInterval)
	}
	return nil
}

// HasWildcardOrigin reports whether the relay accepts any Origin.
func (c *Config) HasWildcardOrigin() bool {
	for _, origin := range c.Relay.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutOrigins reports whether a production deployment accepts
// WebSocket connections from any origin.
func (c *Config) ShouldWarnAboutOrigins() bool {
	return c.IsProduction() && c.HasWildcardOrigin()
}
