//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"campus-live/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the transport-level send primitive of one connection.
// Deliver must never block on the peer: a full buffer or a gone endpoint
// fails this one delivery and nothing else.
type EventSink interface {
	Deliver(msg domain.Outbound) error
}

// IRegistry owns the set of live connections.
type IRegistry interface {
	Register(connID string, sink EventSink)
	Unregister(connID string)
	Send(connID string, msg domain.Outbound)
	Broadcast(msg domain.Outbound)
	Size() int
}

// IRoomTable maps rooms to member connections and identity snapshots.
// Counts are always the cardinality of the stored set, never a separate
// counter that can drift.
type IRoomTable interface {
	Join(roomID domain.RoomID, connID string, identity domain.Identity) int
	Leave(roomID domain.RoomID, connID string) (domain.Identity, int, bool)
	Evict(connID string) []domain.Eviction
	Count(roomID domain.RoomID) int
	MembersOf(roomID domain.RoomID) []string
	RoomsOf(connID string) []domain.RoomID
	Rooms() map[domain.RoomID]int
}

// IBroadcaster resolves a notification's audience and fans out to it.
type IBroadcaster interface {
	Publish(n domain.Notification)
}

// IChatFilter rewrites a chat body before fan-out. A nil filter means
// bodies pass through verbatim.
type IChatFilter interface {
	Censor(original string) string
}

// ICoordinator handles a connection's control messages and lifecycle.
// Handlers are fire-and-forget by policy: errors are logged, never returned
// to the sender (the transport has no reliable error channel back).
type ICoordinator interface {
	Connect(connID string, sink EventSink)
	Join(connID string, roomID domain.RoomID, identity domain.Identity)
	Leave(connID string, roomID domain.RoomID, identity domain.Identity)
	Chat(connID string, roomID domain.RoomID, identity domain.Identity, body string)
	Typing(connID string, roomID domain.RoomID, identity domain.Identity)
	Disconnect(connID string)
}
