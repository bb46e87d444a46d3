// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package services provides suture.Service wrappers for Flightmap components.

Each wrapper implements suture's Serve(ctx context.Context) error and
fmt.Stringer for event logging.

  - RelayService: runs relay.Relay.RunWithContext; on cancellation the relay
    closes every connection with a going-away frame
  - HTTPServerService: runs ListenAndServe and shuts the server down with a
    timeout when the context is canceled

The wrappers depend on small interfaces (ContextRelay, HTTPServer) rather
than concrete types so they can be tested with doubles.
*/
package services
