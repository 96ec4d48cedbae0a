package runtime

import (
	"campus-live/contract"
	"campus-live/domain"
	"campus-live/observability"
	"fmt"
	"log/slog"
	"strings"
)

// Coordinator is the session lifecycle manager: it binds connections to
// rooms, re-emits chat and typing into them, and on disconnect walks every
// membership the connection still holds, firing leave notifications exactly
// once each.
//
// Handlers never return errors to the caller: inbound control messages are
// fire-and-forget by policy, failures are logged locally. Nothing here is
// fatal to the process; one misbehaving connection must never affect other
// rooms or connections.
type Coordinator struct {
	log      *slog.Logger
	registry contract.IRegistry
	rooms    contract.IRoomTable
	router   *Router
	stats    *observability.Stats
}

func NewCoordinator(log *slog.Logger, registry contract.IRegistry,
	rooms contract.IRoomTable, router *Router, stats *observability.Stats) *Coordinator {
	return &Coordinator{
		log:      log,
		registry: registry,
		rooms:    rooms,
		router:   router,
		stats:    stats,
	}
}

// Connect registers a fresh connection's send primitive. The connection is
// not in any room yet.
func (c *Coordinator) Connect(connID string, sink contract.EventSink) {
	c.registry.Register(connID, sink)
	c.stats.IncrConnections()
	c.log.Debug("Client connected", "conn_id", connID)
}

// Join adds the connection to the room, then notifies the room about the
// new member (excluding the joiner) and pushes the updated presence count
// to everyone, joiner included. Joining a room one is already in only
// refreshes the identity snapshot.
func (c *Coordinator) Join(connID string, roomID domain.RoomID, identity domain.Identity) {
	count := c.rooms.Join(roomID, connID, identity)
	c.stats.IncrJoins()
	c.log.Info(fmt.Sprintf("%s joined room %s (%d online)", identity.Name, roomID, count))

	c.router.UserJoined(roomID, identity, connID)
	c.router.RoomCount(roomID, count)
}

// Leave removes the connection from the room and tells the remaining
// members. Leaving a room one is not in, or a room that does not exist,
// is a no-op apart from the count push, mirroring the join-side behavior
// of treating an unknown room as currently empty.
func (c *Coordinator) Leave(connID string, roomID domain.RoomID, identity domain.Identity) {
	stored, remaining, wasMember := c.rooms.Leave(roomID, connID)
	if wasMember {
		identity = stored
		c.stats.IncrLeaves()
	}
	c.log.Info(fmt.Sprintf("%s left room %s (%d online)", identity.Name, roomID, remaining))

	c.router.UserLeft(roomID, identity)
	c.router.RoomCount(roomID, remaining)
}

// Chat re-emits a chat message to the room. Empty or whitespace-only
// bodies are silently dropped. A room with no members is an empty
// audience, not an error.
func (c *Coordinator) Chat(connID string, roomID domain.RoomID, identity domain.Identity, body string) {
	if strings.TrimSpace(body) == "" {
		c.log.Debug("Ignoring empty chat message", "conn_id", connID, "room_id", roomID)
		return
	}
	c.router.Chat(roomID, identity, body)
}

// Typing is a pure pass-through broadcast. The server tracks no typing
// state; the sending client owns the indicator's decay.
func (c *Coordinator) Typing(connID string, roomID domain.RoomID, identity domain.Identity) {
	c.router.Typing(roomID, identity, connID)
}

// Disconnect unregisters the connection, then evicts it from every room it
// still holds with one user:left and one room:count per membership.
// Unregistering first guarantees no frame reaches the closed connection
// after this call. Idempotent: a second close signal finds nothing to do.
func (c *Coordinator) Disconnect(connID string) {
	c.registry.Unregister(connID)

	for _, ev := range c.rooms.Evict(connID) {
		c.stats.IncrLeaves()
		c.log.Info(fmt.Sprintf("%s disconnected from room %s (%d online)", ev.Identity.Name, ev.Room, ev.Remaining))
		c.router.UserLeft(ev.Room, ev.Identity)
		c.router.RoomCount(ev.Room, ev.Remaining)
	}
}
