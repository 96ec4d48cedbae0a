package runtime

import (
	"campus-live/domain"
	"sync"

	"github.com/samber/lo"
)

type memberSet map[string]domain.Identity

// RoomTable maps each room to its member connections and their identity
// snapshots, plus a reverse index from connection to rooms for the
// disconnect sweep. A connection may sit in several rooms: the reference
// client only ever joins one at a time, but that is a client convention,
// not a server invariant.
//
// The presence count of a room is always len of its member set. Rooms are
// created on first join and deleted on last leave, no tombstones.
type RoomTable struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]memberSet
	byConn map[string]map[domain.RoomID]struct{}
}

func NewRoomTable() *RoomTable {
	return &RoomTable{
		rooms:  make(map[domain.RoomID]memberSet),
		byConn: make(map[string]map[domain.RoomID]struct{}),
	}
}

// Join adds the connection to the room, creating the room on the fly.
// Idempotent: re-joining refreshes the identity snapshot without
// double-counting presence. Returns the resulting member count.
func (t *RoomTable) Join(roomID domain.RoomID, connID string, identity domain.Identity) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rooms[roomID]; !ok {
		t.rooms[roomID] = make(memberSet)
	}
	t.rooms[roomID][connID] = identity

	if _, ok := t.byConn[connID]; !ok {
		t.byConn[connID] = make(map[domain.RoomID]struct{})
	}
	t.byConn[connID][roomID] = struct{}{}

	return len(t.rooms[roomID])
}

// Leave removes the connection from the room and deletes the room when the
// last member is gone. Leaving a room one is not in is a no-op, never an
// error. Returns the stored identity snapshot, the remaining count, and
// whether the connection was actually a member.
func (t *RoomTable) Leave(roomID domain.RoomID, connID string) (domain.Identity, int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leaveLocked(roomID, connID)
}

func (t *RoomTable) leaveLocked(roomID domain.RoomID, connID string) (domain.Identity, int, bool) {
	members, ok := t.rooms[roomID]
	if !ok {
		return domain.Identity{}, 0, false
	}
	identity, wasMember := members[connID]
	if wasMember {
		delete(members, connID)
	}
	remaining := len(members)
	if remaining == 0 {
		delete(t.rooms, roomID)
	}

	if joined, ok := t.byConn[connID]; ok {
		delete(joined, roomID)
		if len(joined) == 0 {
			delete(t.byConn, connID)
		}
	}
	return identity, remaining, wasMember
}

// Evict removes the connection from every room it still holds, exactly
// once per membership. The whole sweep happens under one lock so a second
// close signal racing the first observes nothing left to evict.
func (t *RoomTable) Evict(connID string) []domain.Eviction {
	t.mu.Lock()
	defer t.mu.Unlock()

	joined, ok := t.byConn[connID]
	if !ok {
		return nil
	}

	evictions := make([]domain.Eviction, 0, len(joined))
	for roomID := range joined {
		identity, remaining, wasMember := t.leaveLocked(roomID, connID)
		if wasMember {
			evictions = append(evictions, domain.Eviction{
				Room:      roomID,
				Identity:  identity,
				Remaining: remaining,
			})
		}
	}
	return evictions
}

// Count reports the live member count, 0 for an absent room.
func (t *RoomTable) Count(roomID domain.RoomID) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms[roomID])
}

// MembersOf snapshots the member connection ids for fan-out. The caller
// sends outside any table lock.
func (t *RoomTable) MembersOf(roomID domain.RoomID) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	return lo.Keys(members)
}

// RoomsOf snapshots the rooms a connection currently sits in.
func (t *RoomTable) RoomsOf(connID string) []domain.RoomID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	joined, ok := t.byConn[connID]
	if !ok {
		return nil
	}
	return lo.Keys(joined)
}

// Rooms snapshots every live room with its member count, for the debug
// dashboard.
func (t *RoomTable) Rooms() map[domain.RoomID]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[domain.RoomID]int, len(t.rooms))
	for roomID, members := range t.rooms {
		out[roomID] = len(members)
	}
	return out
}
