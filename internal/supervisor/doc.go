// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package supervisor provides process supervision for Flightmap using suture v4.

# Overview

Long-running services are organized into two layers:

	RootSupervisor ("flightmap")
	├── MessagingSupervisor ("messaging-layer")
	│   └── RelayService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in one layer restarts only that layer's services. Restart storms
are bounded by FailureThreshold, FailureDecay and FailureBackoff; shutdown
waits up to ShutdownTimeout per service.

# Logging

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog. main passes logging.NewSlogLogger("supervisor"), so the events
reach the same zerolog output as the rest of the process.

# Usage

	tree, err := supervisor.NewSupervisorTree(
	    logging.NewSlogLogger("supervisor"),
	    supervisor.TreeConfigFrom(cfg.Supervisor),
	)
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddMessagingService(services.NewRelayService(r))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, cfg.Supervisor.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
*/
package supervisor
