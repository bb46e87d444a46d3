// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

// Package logging provides the process-wide zerolog logger for Flightmap.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("total_connections", n).Msg("relay connection opened")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
//
// # Configuration
//
// The logging section of the application config selects the level
// (trace, debug, info, warn, error, fatal, disabled), the format (json or
// console) and whether caller file:line is included. The matching environment
// variables are LOG_LEVEL, LOG_FORMAT and LOG_CALLER.
//
// # Correlation
//
// Each relay connection is tagged with a short correlation ID from
// GenerateCorrelationID; HTTP requests carry a full request ID. Ctx attaches
// whichever of the two the context holds.
//
// # slog Bridge
//
// SlogHandler adapts zerolog to log/slog for the suture supervisor event hook:
//
//	hook := (&sutureslog.Handler{Logger: logging.NewSlogLogger("supervisor")}).MustHook()
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
