// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/flightmap/internal/api"
	"github.com/tomtom215/flightmap/internal/config"
	"github.com/tomtom215/flightmap/internal/logging"
	"github.com/tomtom215/flightmap/internal/relay"
	"github.com/tomtom215/flightmap/internal/supervisor"
	"github.com/tomtom215/flightmap/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Address()).
		Str("environment", cfg.Server.Environment).
		Dur("heartbeat_interval", cfg.Relay.HeartbeatInterval).
		Strs("allowed_origins", cfg.Relay.AllowedOrigins).
		Msg("Starting Flightmap relay")

	if cfg.ShouldWarnAboutOrigins() {
		logging.Warn().Msg("RELAY_ALLOWED_ORIGINS contains '*' in production: any web page can connect to the relay")
	}

	r := relay.New(relayOptions(cfg.Relay), nil)
	router := api.NewRouter(cfg, r)

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Relay.HandshakeTimeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(
		logging.NewSlogLogger("supervisor"),
		supervisor.TreeConfigFrom(cfg.Supervisor),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(services.NewRelayService(r))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Supervisor.ShutdownTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Blocks until the supervisor finishes, whether from a signal or an error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Flightmap stopped gracefully")
}

// relayOptions maps the relay config section onto relay.Options.
func relayOptions(cfg config.RelayConfig) relay.Options {
	opts := relay.DefaultOptions()
	opts.HeartbeatInterval = cfg.HeartbeatInterval
	opts.MaxMessageSize = cfg.MaxMessageSize
	opts.SendBufferSize = cfg.SendBufferSize
	opts.WriteWait = cfg.WriteWait
	opts.HandshakeTimeout = cfg.HandshakeTimeout
	opts.CompressionEnabled = cfg.CompressionEnabled
	opts.CompressionLevel = cfg.CompressionLevel
	opts.AllowedOrigins = cfg.AllowedOrigins
	opts.InboundRate = cfg.InboundRate
	opts.InboundBurst = cfg.InboundBurst
	return opts
}
