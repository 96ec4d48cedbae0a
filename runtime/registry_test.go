package runtime

import (
	"campus-live/domain"
	"campus-live/errors"
	"campus-live/observability"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// captureSink records everything delivered to it, shared by the runtime
// package tests.
type captureSink struct {
	mu     sync.Mutex
	frames []domain.Outbound
	fail   bool
}

func (s *captureSink) Deliver(msg domain.Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.ErrSlowConsumer
	}
	s.frames = append(s.frames, msg)
	return nil
}

func (s *captureSink) all() []domain.Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Outbound(nil), s.frames...)
}

func (s *captureSink) byType(msgType string) []domain.Outbound {
	var out []domain.Outbound
	for _, f := range s.all() {
		if f.Type == msgType {
			out = append(out, f)
		}
	}
	return out
}

func newTestRegistry() *Registry {
	log := slog.Default()
	return NewRegistry(log, observability.NewStats(log))
}

func TestRegistry_Send_To_Registered_Connection(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	connID := uuid.NewString()
	sink := &captureSink{}

	// Given a registered connection
	registry.Register(connID, sink)
	req.Equal(1, registry.Size())

	// When a message is sent to it
	registry.Send(connID, domain.Outbound{Type: domain.TypeRoomCount})

	// Then the sink received it
	req.Len(sink.all(), 1)
}

func TestRegistry_Send_To_Unknown_Connection_Is_Noop(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()

	// When sending to a connection that was never registered
	registry.Send(uuid.NewString(), domain.Outbound{Type: domain.TypeRoomCount})

	// Then nothing happens, no panic, no error
	req.Equal(0, registry.Size())
}

func TestRegistry_Send_Swallows_Delivery_Failure(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	connID := uuid.NewString()
	sink := &captureSink{fail: true}
	registry.Register(connID, sink)

	// When delivery fails at the sink
	registry.Send(connID, domain.Outbound{Type: domain.TypeChatNew})

	// Then the failure stays local and the connection stays registered
	req.Equal(1, registry.Size())
	req.Empty(sink.all())
}

func TestRegistry_Broadcast_Reaches_Every_Connection(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	sink1 := &captureSink{}
	sink2 := &captureSink{}
	sink3 := &captureSink{fail: true}
	registry.Register(uuid.NewString(), sink1)
	registry.Register(uuid.NewString(), sink2)
	registry.Register(uuid.NewString(), sink3)

	// When broadcasting to all connections
	registry.Broadcast(domain.Outbound{Type: domain.TypeEventCreated})

	// Then every live sink got exactly one frame, the dead one none
	req.Len(sink1.all(), 1)
	req.Len(sink2.all(), 1)
	req.Empty(sink3.all())
}

func TestRegistry_Unregister_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry()
	connID := uuid.NewString()
	sink := &captureSink{}
	registry.Register(connID, sink)

	// When unregistering twice
	registry.Unregister(connID)
	registry.Unregister(connID)

	// Then the registry is empty and sends are dropped silently
	req.Equal(0, registry.Size())
	registry.Send(connID, domain.Outbound{Type: domain.TypeChatNew})
	req.Empty(sink.all())
}

func TestRegistry_Broadcast_On_Empty_Registry_Is_Noop(t *testing.T) {
	registry := newTestRegistry()

	// When broadcasting with nobody connected, nothing blows up
	registry.Broadcast(domain.Outbound{Type: domain.TypeEventDeleted})
}
