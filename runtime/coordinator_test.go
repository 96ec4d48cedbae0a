package runtime

import (
	"campus-live/domain"
	"campus-live/observability"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type harness struct {
	coordinator *Coordinator
	router      *Router
	registry    *Registry
	rooms       *RoomTable
}

func newHarness() *harness {
	log := slog.Default()
	stats := observability.NewStats(log)
	registry := NewRegistry(log, stats)
	rooms := NewRoomTable()
	router := NewRouter(log, registry, rooms, nil, stats)
	return &harness{
		coordinator: NewCoordinator(log, registry, rooms, router, stats),
		router:      router,
		registry:    registry,
		rooms:       rooms,
	}
}

func (h *harness) connect() (string, *captureSink) {
	connID := uuid.NewString()
	sink := &captureSink{}
	h.coordinator.Connect(connID, sink)
	return connID, sink
}

func ident(name string) domain.Identity {
	return domain.Identity{ID: domain.UserID(uuid.NewString()), Name: name}
}

func TestCoordinator_Join_Notifies_Room_And_Pushes_Count(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("42")
	connA, sinkA := h.connect()
	connB, sinkB := h.connect()

	// Given A alone in the room
	h.coordinator.Join(connA, roomID, ident("Ana"))

	// When B joins
	joined := ident("Bob")
	h.coordinator.Join(connB, roomID, joined)

	// Then A is told about the new member
	userJoined := sinkA.byType(domain.TypeUserJoined)
	req.Len(userJoined, 1)
	payload := userJoined[0].Payload.(domain.PresenceChange)
	req.Equal("Bob", payload.User.Name)
	req.Equal(roomID, payload.EventID)

	// And B never sees its own user:joined
	req.Empty(sinkB.byType(domain.TypeUserJoined))

	// And both got the fresh count
	countsA := sinkA.byType(domain.TypeRoomCount)
	countsB := sinkB.byType(domain.TypeRoomCount)
	req.NotEmpty(countsB)
	req.Equal(2, countsA[len(countsA)-1].Payload.(domain.RoomCount).Count)
	req.Equal(2, countsB[len(countsB)-1].Payload.(domain.RoomCount).Count)
}

func TestCoordinator_Duplicate_Join_Does_Not_Inflate_Count(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("42")
	connA, sinkA := h.connect()

	// When the same connection joins twice
	h.coordinator.Join(connA, roomID, ident("Ana"))
	h.coordinator.Join(connA, roomID, ident("Ana"))

	// Then presence stays at one
	req.Equal(1, h.rooms.Count(roomID))
	counts := sinkA.byType(domain.TypeRoomCount)
	req.Equal(1, counts[len(counts)-1].Payload.(domain.RoomCount).Count)
}

func TestCoordinator_Leave_Tells_Remaining_Members_And_Deletes_Empty_Room(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("9")
	connA, _ := h.connect()
	identityA := ident("Ana")
	h.coordinator.Join(connA, roomID, identityA)

	// When the only member leaves
	h.coordinator.Leave(connA, roomID, identityA)

	// Then the room is gone entirely
	req.Equal(0, h.rooms.Count(roomID))
	req.Empty(h.rooms.Rooms())
}

func TestCoordinator_Leave_Unknown_Room_Is_Noop(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	connA, sinkA := h.connect()

	// When leaving a room that never existed
	h.coordinator.Leave(connA, domain.RoomID("ghost"), ident("Ana"))

	// Then nothing fatal happens and no frame reaches the leaver
	req.Empty(sinkA.byType(domain.TypeUserLeft))
}

func TestCoordinator_Chat_Includes_Sender_And_Ignores_Blank_Bodies(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("42")
	connA, sinkA := h.connect()
	connB, sinkB := h.connect()
	identityA := ident("Ana")
	h.coordinator.Join(connA, roomID, identityA)
	h.coordinator.Join(connB, roomID, ident("Bob"))

	// When A sends "hello"
	h.coordinator.Chat(connA, roomID, identityA, "hello")

	// Then B receives it and, per the room-wide rule, so does A
	chatsB := sinkB.byType(domain.TypeChatNew)
	req.Len(chatsB, 1)
	msg := chatsB[0].Payload.(domain.ChatMessage)
	req.Equal("hello", msg.Message)
	req.Equal(identityA.Name, msg.User.Name)
	req.Equal(roomID, msg.EventID)
	req.False(msg.TS.IsZero())
	req.Len(sinkA.byType(domain.TypeChatNew), 1)

	// When A sends whitespace only
	h.coordinator.Chat(connA, roomID, identityA, "   \t ")

	// Then no chat:new is produced at all
	req.Len(sinkB.byType(domain.TypeChatNew), 1)
	req.Len(sinkA.byType(domain.TypeChatNew), 1)
}

func TestCoordinator_Typing_Never_Echoes_To_Sender(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("42")
	connA, sinkA := h.connect()
	connB, sinkB := h.connect()
	connC, sinkC := h.connect()
	identityA := ident("Ana")
	h.coordinator.Join(connA, roomID, identityA)
	h.coordinator.Join(connB, roomID, ident("Bob"))
	h.coordinator.Join(connC, roomID, ident("Caro"))

	// When A types
	h.coordinator.Typing(connA, roomID, identityA)

	// Then every other member gets the signal, A does not
	req.Len(sinkB.byType(domain.TypeChatTyping), 1)
	req.Len(sinkC.byType(domain.TypeChatTyping), 1)
	req.Empty(sinkA.byType(domain.TypeChatTyping))
}

func TestCoordinator_Disconnect_Evicts_Every_Room_Exactly_Once(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	identityC := ident("Caro")
	connC, _ := h.connect()

	// Given C in two rooms, each shared with a witness
	witnesses := make(map[domain.RoomID]*captureSink)
	for _, roomID := range []domain.RoomID{"5", "6"} {
		connW, sinkW := h.connect()
		h.coordinator.Join(connW, roomID, ident("witness"))
		h.coordinator.Join(connC, roomID, identityC)
		witnesses[roomID] = sinkW
	}

	// When C disconnects
	h.coordinator.Disconnect(connC)

	// Then each room saw exactly one user:left for C and the new count
	for roomID, sinkW := range witnesses {
		lefts := sinkW.byType(domain.TypeUserLeft)
		req.Len(lefts, 1)
		req.Equal(identityC.Name, lefts[0].Payload.(domain.PresenceChange).User.Name)

		counts := sinkW.byType(domain.TypeRoomCount)
		req.Equal(1, counts[len(counts)-1].Payload.(domain.RoomCount).Count)

		// And the rooms survive with their witness inside
		req.Equal(1, h.rooms.Count(roomID))
	}

	// When a second close signal arrives for the same connection
	h.coordinator.Disconnect(connC)

	// Then no duplicate leave broadcast is produced
	for _, sinkW := range witnesses {
		req.Len(sinkW.byType(domain.TypeUserLeft), 1)
	}
}

func TestCoordinator_Disconnect_Of_Member_Keeps_Room_For_Others(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("5")
	connA, sinkA := h.connect()
	connB, sinkB := h.connect()
	connC, _ := h.connect()
	h.coordinator.Join(connA, roomID, ident("Ana"))
	h.coordinator.Join(connB, roomID, ident("Bob"))
	identityC := ident("Caro")
	h.coordinator.Join(connC, roomID, identityC)

	// When C disconnects
	h.coordinator.Disconnect(connC)

	// Then A and B both learn about it with the updated count of 2
	for _, sink := range []*captureSink{sinkA, sinkB} {
		lefts := sink.byType(domain.TypeUserLeft)
		req.Len(lefts, 1)
		req.Equal(identityC.Name, lefts[0].Payload.(domain.PresenceChange).User.Name)

		counts := sink.byType(domain.TypeRoomCount)
		req.Equal(2, counts[len(counts)-1].Payload.(domain.RoomCount).Count)
	}

	// And the room is still present, not deleted
	req.Equal(2, h.rooms.Count(roomID))
}

func TestCoordinator_RSVP_Member_Gets_Global_And_Room_Frames(t *testing.T) {
	req := require.New(t)
	h := newHarness()
	roomID := domain.RoomID("7")
	connA, sinkA := h.connect()
	_, sinkOutside := h.connect()
	h.coordinator.Join(connA, roomID, ident("Ana"))

	// When an RSVP lands for event 7
	h.router.Publish(domain.RSVPUpdated{RSVP: json.RawMessage(`{"going":true}`), EventID: roomID})

	// Then the room member received two distinct frames by design
	req.Len(sinkA.byType(domain.TypeRSVPUpdated), 2)

	// And a connection outside the room received exactly one
	req.Len(sinkOutside.byType(domain.TypeRSVPUpdated), 1)
}
