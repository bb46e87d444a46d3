// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package services

import (
	"context"
)

// ContextRelay matches *relay.Relay's RunWithContext method.
type ContextRelay interface {
	RunWithContext(ctx context.Context) error
}

// RelayService runs the relay's heartbeat monitor as a supervised service.
//
// RunWithContext already follows the suture.Service contract: it blocks
// until the context is canceled, then closes every open connection with a
// going-away frame and returns ctx.Err().
//
//	r := relay.New(opts, nil)
//	tree.AddMessagingService(services.NewRelayService(r))
type RelayService struct {
	relay ContextRelay
	name  string
}

// NewRelayService creates a new relay service wrapper.
func NewRelayService(relay ContextRelay) *RelayService {
	return &RelayService{
		relay: relay,
		name:  "relay",
	}
}

// Serve implements suture.Service.
func (r *RelayService) Serve(ctx context.Context) error {
	return r.relay.RunWithContext(ctx)
}

// String implements fmt.Stringer; suture uses it in log events.
func (r *RelayService) String() string {
	return r.name
}
