// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flightmap/internal/config"
	"github.com/tomtom215/flightmap/internal/logging"
)

func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// fakeRelay answers upgrade requests with 418 so tests can see which
// handler served a request.
type fakeRelay struct {
	ready       atomic.Bool
	connections atomic.Int64
	upgrades    atomic.Int64
}

func (f *fakeRelay) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	f.upgrades.Add(1)
	w.WriteHeader(http.StatusTeapot)
}

func (f *fakeRelay) ConnectionCount() int { return int(f.connections.Load()) }
func (f *fakeRelay) Ready() bool          { return f.ready.Load() }

// testConfig returns a valid configuration with static serving disabled.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        3857,
			Timeout:     5 * time.Second,
			Environment: "development",
		},
		Security: config.SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

func newTestHandler(cfg *config.Config, relay RelayHandler) http.Handler {
	return NewRouter(cfg, relay).SetupChi()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upgradeRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

// decodeHealth decodes an APIResponse whose data is a HealthStatus.
func decodeHealth(t *testing.T, body []byte) (APIResponse, HealthStatus) {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode response %s: %v", body, err)
	}
	var payload struct {
		Data HealthStatus `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode health data %s: %v", body, err)
	}
	return resp, payload.Data
}
