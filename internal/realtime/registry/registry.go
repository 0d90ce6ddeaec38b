// Package registry owns the map from authenticated user to live connection.
//
// The registry is the single piece of mutable shared state in the realtime
// layer. It is constructed once at startup and injected into the router and
// fan-out engine; nothing else mutates the map.
package registry

import (
	"sync"

	"resona/internal/platform/metrics"
	"resona/internal/realtime"
	"resona/pkg/domain"
)

// Registry maps each user to at most one live connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.UserID]realtime.Conn

	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Registry {
	return &Registry{
		conns:   make(map[domain.UserID]realtime.Conn),
		metrics: m,
	}
}

// Register installs conn as the live connection for its user. An existing
// entry is closed with a superseded reason before being replaced, so the
// displaced transport is never silently leaked. Which of two racing
// registrations survives is unspecified; the loser is always closed.
func (r *Registry) Register(conn realtime.Conn) {
	userID := conn.UserID()

	r.mu.Lock()
	old, had := r.conns[userID]
	r.conns[userID] = conn
	size := len(r.conns)
	r.mu.Unlock()

	// Close outside the lock; transport teardown can block.
	if had && old != conn {
		old.Close(realtime.CloseSuperseded)
	}
	r.metrics.ConnectionsLive.Set(float64(size))
}

// Unregister removes conn's entry only if conn is still the registered
// connection for its user, and reports whether it did. A superseded
// connection tearing itself down therefore cannot evict its replacement,
// and its caller can tell that presence now belongs to someone else.
func (r *Registry) Unregister(conn realtime.Conn) bool {
	userID := conn.UserID()

	r.mu.Lock()
	removed := false
	if current, ok := r.conns[userID]; ok && current == conn {
		delete(r.conns, userID)
		removed = true
	}
	size := len(r.conns)
	r.mu.Unlock()

	r.metrics.ConnectionsLive.Set(float64(size))
	return removed
}

// Lookup reports the live connection for userID, if any. Used by the fan-out
// engine to test reachability; an absent entry is a normal steady state, not
// an error.
func (r *Registry) Lookup(userID domain.UserID) (realtime.Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll tears down every live connection. Called on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := make([]realtime.Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	r.conns = make(map[domain.UserID]realtime.Conn)
	r.mu.Unlock()

	for _, c := range conns {
		c.Close(realtime.CloseNormal)
	}
	r.metrics.ConnectionsLive.Set(0)
}
