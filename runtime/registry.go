// Package runtime owns the live state of the coordinator: connections,
// rooms, audience resolution and session lifecycle. It carries no domain
// rules beyond membership invariants and no transport logic.
package runtime

import (
	"campus-live/contract"
	"campus-live/domain"
	"campus-live/observability"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

// Registry is the connection registry: every live connection and its send
// primitive. It is an injected instance, not a process-wide singleton, so
// tests run isolated copies.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]contract.EventSink
	log   *slog.Logger
	stats *observability.Stats
}

func NewRegistry(log *slog.Logger, stats *observability.Stats) *Registry {
	return &Registry{
		sinks: make(map[string]contract.EventSink),
		log:   log,
		stats: stats,
	}
}

func (r *Registry) Register(connID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[connID] = sink
}

// Unregister is a no-op for an unknown id; a second close signal for the
// same connection must not be an error.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[connID]; !ok {
		return
	}
	delete(r.sinks, connID)
	r.stats.IncrDisconnects()
}

// Send delivers one message to one connection. Delivery failure (connection
// already gone, transport buffer full) is swallowed and logged: the system
// never blocks or fails a broadcast because one peer is slow or dead.
func (r *Registry) Send(connID string, msg domain.Outbound) {
	r.mu.RLock()
	sink, ok := r.sinks[connID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	r.stats.IncrDeliveries()
	if err := sink.Deliver(msg); err != nil {
		r.stats.IncrDropped()
		r.log.Debug("Delivery dropped", "conn_id", connID, "type", msg.Type, "error", err)
	}
}

// Broadcast attempts delivery to every registered connection before
// returning. Sinks are snapshotted first so the actual sends never run
// under the registry lock.
func (r *Registry) Broadcast(msg domain.Outbound) {
	r.mu.RLock()
	targets := lo.Keys(r.sinks)
	r.mu.RUnlock()

	for _, connID := range targets {
		r.Send(connID, msg)
	}
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
