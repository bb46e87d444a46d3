// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

/*
Package relay implements the WebSocket broadcast relay behind the flight map.

Every browser that opens the map holds one WebSocket to the relay. When any
client submits a flight path, the relay forwards that frame unchanged to every
connected client, the sender included, so all maps draw the same path at the
same time. The relay keeps no history; a client only sees paths submitted
while it is connected.

Key Components:

  - Registry: the set of open connections and their liveness flags
  - Router: classifies inbound frames and fans "message" frames out
  - Monitor: periodic ping/pong sweep that evicts dead peers
  - Relay: WebSocket upgrade, per-connection pumps and graceful shutdown

Architecture:

	          ┌──────────┐
	 upgrade →│  Relay   │── Admit ──┐
	          └────┬─────┘           ▼
	               │           ┌──────────┐
	   readPump ───┴─ Router ─→│ Registry │←── Monitor (every interval)
	                           └────┬─────┘
	                                │ trySend
	                 ┌──────────────┼──────────────┐
	              writePump      writePump      writePump

Wire Protocol:

All frames are UTF-8 JSON text frames of the form {"type": <string>, "data": <any>}.

  - {"type":"ping"}: server to client liveness probe
  - {"type":"pong"}: client reply; marks the sender alive, never broadcast
  - {"type":"message","data":[[lng,lat],[lng,lat]]}: broadcast verbatim

Frames that are not JSON or lack a type are dropped and the connection stays
open. Unknown types are ignored. Binary frames are dropped.

Liveness:

Each connection is ALIVE when admitted. A sweep marks every connection
SUSPECT and sends a ping; a pong restores ALIVE. A connection still SUSPECT
at the next sweep is terminated and removed, so a silent peer is evicted
between one and two intervals after it stops answering.

Back-pressure:

Each connection has a bounded outbound queue. A broadcast never blocks: a
recipient whose queue is full or whose transport is closed simply misses that
frame. Slow clients are not disconnected for falling behind.

Usage Example:

	r := relay.New(relay.DefaultOptions(), nil)

	router := chi.NewRouter()
	router.Handle("/ws", r)

	// Sweeps until ctx is canceled, then closes every connection with 1001
	go r.RunWithContext(ctx)

Thread Safety:

Registry operations are guarded by a single RWMutex. Broadcasts and sweeps
iterate a snapshot, so connections may be added or removed concurrently.
Each transport has exactly one writer (its write pump) plus control frames,
which gorilla/websocket allows concurrently.
*/
package relay
