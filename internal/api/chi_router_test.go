// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package api

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/flightmap/internal/middleware"
	"github.com/tomtom215/flightmap/internal/relay"
)

func TestRouter_Routes(t *testing.T) {
	fake := &fakeRelay{}
	fake.ready.Store(true)
	h := newTestHandler(testConfig(), fake)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
	}{
		{"liveness", httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil), http.StatusOK},
		{"readiness", httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil), http.StatusOK},
		{"metrics", httptest.NewRequest(http.MethodGet, "/metrics", nil), http.StatusOK},
		{"websocket route", upgradeRequest("/ws"), http.StatusTeapot},
		{"websocket at root", upgradeRequest("/"), http.StatusTeapot},
		{"websocket at any path", upgradeRequest("/flights"), http.StatusTeapot},
		{"static disabled", httptest.NewRequest(http.MethodGet, "/index.html", nil), http.StatusNotFound},
		{"health wrong method", httptest.NewRequest(http.MethodPost, "/api/v1/health/live", nil), http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.req)
			if rec.Code != tt.wantCode {
				t.Errorf("%s %s = %d, want %d", tt.req.Method, tt.req.URL.Path, rec.Code, tt.wantCode)
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("X-Request-ID not set")
			}
		})
	}
}

func TestRouter_ReadinessFollowsRelay(t *testing.T) {
	fake := &fakeRelay{}
	h := newTestHandler(testConfig(), fake)

	if rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready before monitor start = %d, want 503", rec.Code)
	}
	fake.ready.Store(true)
	if rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)); rec.Code != http.StatusOK {
		t.Fatalf("ready after monitor start = %d, want 200", rec.Code)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	h := newTestHandler(testConfig(), &fakeRelay{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := serve(h, req)

	want := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}

	plain := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if plain.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should not be sent over plain HTTP")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://map.example.com"}
	h := newTestHandler(cfg, &fakeRelay{})

	tests := []struct {
		origin    string
		wantAllow string
	}{
		{"https://map.example.com", "https://map.example.com"},
		{"https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/health/live", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := serve(h, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitReqs = 2
	h := newTestHandler(cfg, &fakeRelay{})

	for i := 0; i < 2; i++ {
		if rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i+1, rec.Code)
		}
	}
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request 3 = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "RATE_LIMITED") {
		t.Errorf("body = %s, want RATE_LIMITED error", rec.Body.String())
	}
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitReqs = 1
	cfg.Security.RateLimitDisabled = true
	h := newTestHandler(cfg, &fakeRelay{})

	for i := 0; i < 5; i++ {
		if rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil)); rec.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRouter_WebSocketRoutesShareLimit(t *testing.T) {
	fake := &fakeRelay{}
	h := newTestHandler(testConfig(), fake)

	for i := 0; i < RateLimitWebSocket.Requests; i++ {
		if rec := serve(h, upgradeRequest("/ws")); rec.Code != http.StatusTeapot {
			t.Fatalf("upgrade %d = %d, want relay", i+1, rec.Code)
		}
	}
	if rec := serve(h, upgradeRequest("/")); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("upgrade at root after limit = %d, want 429", rec.Code)
	}
	if got := fake.upgrades.Load(); got != int64(RateLimitWebSocket.Requests) {
		t.Errorf("relay saw %d upgrades, want %d", got, RateLimitWebSocket.Requests)
	}
}

func TestRouter_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	page := "<!doctype html><title>flights</title>" + strings.Repeat("<div class=\"arc\"></div>", 200)
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Server.StaticDir = dir
	fake := &fakeRelay{}
	h := newTestHandler(cfg, fake)

	t.Run("index served at root", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET / = %d, want 200", rec.Code)
		}
		if rec.Body.String() != page {
			t.Error("GET / did not return index.html")
		}
	})

	t.Run("gzip when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := serve(h, req)

		if enc := rec.Header().Get("Content-Encoding"); enc != "gzip" {
			t.Fatalf("Content-Encoding = %q, want gzip", enc)
		}
		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		body, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("read gzip body: %v", err)
		}
		if string(body) != page {
			t.Error("decompressed body does not match index.html")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if rec := serve(h, httptest.NewRequest(http.MethodGet, "/missing.js", nil)); rec.Code != http.StatusNotFound {
			t.Errorf("GET /missing.js = %d, want 404", rec.Code)
		}
	})

	t.Run("upgrade at root reaches relay", func(t *testing.T) {
		if rec := serve(h, upgradeRequest("/")); rec.Code != http.StatusTeapot {
			t.Errorf("upgrade at / = %d, want relay", rec.Code)
		}
	})
}

func TestRouter_MissingStaticDir(t *testing.T) {
	cfg := testConfig()
	cfg.Server.StaticDir = filepath.Join(t.TempDir(), "does-not-exist")
	h := newTestHandler(cfg, &fakeRelay{})

	if rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil)); rec.Code != http.StatusNotFound {
		t.Errorf("GET / = %d, want 404", rec.Code)
	}
}

// TestRouter_RelayEndToEnd runs the real relay behind the full middleware
// stack, so any wrapper that breaks hijacking fails here.
func TestRouter_RelayEndToEnd(t *testing.T) {
	r := relay.New(relay.Options{AllowedOrigins: []string{"*"}}, clockwork.NewFakeClock())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.RunWithContext(ctx) }()

	server := httptest.NewServer(newTestHandler(testConfig(), r))
	t.Cleanup(func() {
		cancel()
		<-done
		server.Close()
	})

	waitUntil(t, "relay ready", r.Ready)

	wsBase := "ws" + strings.TrimPrefix(server.URL, "http")
	a := dial(t, wsBase+"/ws")
	b := dial(t, wsBase+"/")
	waitUntil(t, "two connections", func() bool { return r.ConnectionCount() == 2 })

	resp, err := http.Get(server.URL + "/api/v1/health/ready")
	if err != nil {
		t.Fatalf("GET ready: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready = %d, want 200", resp.StatusCode)
	}
	if _, status := decodeHealth(t, body); status.Connections != 2 {
		t.Errorf("ready connections = %d, want 2", status.Connections)
	}

	payload := `{"type":"message","data":[[-122.38,37.62],[-73.78,40.64]]}`
	if err := a.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
	for name, conn := range map[string]*websocket.Conn{"/ws": a, "/": b} {
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatal(err)
		}
		_, got, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("client on %s: read: %v", name, err)
		}
		if string(got) != payload {
			t.Errorf("client on %s received %s, want %s", name, got, payload)
		}
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
