// Flightmap - Real-time Flight Path Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flightmap

package relay

import (
	"sort"
	"sync"
)

// Registry is the set of open connections and their liveness flags.
// Membership and flags share one lock.
type Registry struct {
	mu    sync.RWMutex
	conns map[*Connection]bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[*Connection]bool),
	}
}

// Add registers c as alive. It returns false if c was already registered,
// in which case its flag is left untouched.
func (r *Registry) Add(c *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; ok {
		return false
	}
	r.conns[c] = true
	return true
}

// Remove unregisters c. It returns true only for the call that actually
// removed it; later calls are no-ops.
func (r *Registry) Remove(c *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return false
	}
	delete(r.conns, c)
	return true
}

// Contains reports whether c is registered.
func (r *Registry) Contains(c *Connection) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[c]
	return ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot returns the registered connections ordered by ID.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	sort.Slice(conns, func(i, j int) bool {
		return conns[i].id < conns[j].id
	})
	return conns
}

// ForEach calls fn for every connection in a point-in-time snapshot.
// fn runs without the lock held, so it may call back into the Registry.
func (r *Registry) ForEach(fn func(*Connection)) {
	for _, c := range r.Snapshot() {
		fn(c)
	}
}

// MarkAlive sets c's liveness flag. Unregistered connections are ignored.
func (r *Registry) MarkAlive(c *Connection) {
	r.setAlive(c, true)
}

// MarkSuspect clears c's liveness flag. Unregistered connections are ignored.
func (r *Registry) MarkSuspect(c *Connection) {
	r.setAlive(c, false)
}

// IsAlive reports c's liveness flag. Unregistered connections are never alive.
func (r *Registry) IsAlive(c *Connection) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[c]
}

func (r *Registry) setAlive(c *Connection, alive bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[c]; ok {
		r.conns[c] = alive
	}
}

// suspect clears c's flag and returns its previous value in one step.
// present is false if c is no longer registered.
func (r *Registry) suspect(c *Connection) (wasAlive, present bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wasAlive, present = r.conns[c]
	if present {
		r.conns[c] = false
	}
	return wasAlive, present
}
