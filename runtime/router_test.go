package runtime

import (
	"campus-live/domain"
	"campus-live/mocks"
	"campus-live/observability"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMockedRouter(t *testing.T) (*Router, *mocks.MockIRegistry, *mocks.MockIRoomTable) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	rooms := mocks.NewMockIRoomTable(ctrl)
	log := slog.Default()
	return NewRouter(log, registry, rooms, nil, observability.NewStats(log)), registry, rooms
}

func TestRouter_EventCreated_Is_Global_Only(t *testing.T) {
	router, registry, _ := newMockedRouter(t)

	// Then the frame goes to the global channel exactly once, no room fan-out
	registry.EXPECT().Broadcast(gomock.Any()).Do(func(msg domain.Outbound) {
		require.Equal(t, domain.TypeEventCreated, msg.Type)
	}).Times(1)

	// When an event:created notification is published
	router.Publish(domain.EventCreated{Event: json.RawMessage(`{"id":7}`)})
}

func TestRouter_RSVPUpdated_Feeds_Global_And_Room(t *testing.T) {
	req := require.New(t)
	router, registry, rooms := newMockedRouter(t)
	roomID := domain.RoomID("7")
	members := []string{"conn-a", "conn-b"}

	// Then list views get one global frame
	registry.EXPECT().Broadcast(gomock.Any()).Do(func(msg domain.Outbound) {
		req.Equal(domain.TypeRSVPUpdated, msg.Type)
	}).Times(1)

	// And every member of room 7 gets one room-scoped frame on top of it
	rooms.EXPECT().MembersOf(roomID).Return(members).Times(1)
	registry.EXPECT().Send("conn-a", gomock.Any()).Times(1)
	registry.EXPECT().Send("conn-b", gomock.Any()).Times(1)

	// When an rsvp:updated notification is published
	router.Publish(domain.RSVPUpdated{RSVP: json.RawMessage(`{}`), EventID: roomID})
}

func TestRouter_CommentCreated_Is_Room_Only(t *testing.T) {
	router, registry, rooms := newMockedRouter(t)
	roomID := domain.RoomID("5")

	// Then the global channel stays silent
	rooms.EXPECT().MembersOf(roomID).Return([]string{"conn-a"}).Times(1)
	registry.EXPECT().Send("conn-a", gomock.Any()).Do(func(_ string, msg domain.Outbound) {
		require.Equal(t, domain.TypeCommentCreated, msg.Type)
	}).Times(1)

	// When a comment:created notification is published
	router.Publish(domain.CommentCreated{Comment: json.RawMessage(`{}`), EventID: roomID})
}

func TestRouter_Empty_Audience_Is_Noop(t *testing.T) {
	router, _, rooms := newMockedRouter(t)
	roomID := domain.RoomID("missing")

	// Given a room nobody is in
	rooms.EXPECT().MembersOf(roomID).Return(nil).Times(1)

	// When publishing to it, no send happens and nothing errors
	router.Publish(domain.CommentDeleted{CommentID: json.RawMessage(`3`), EventID: roomID})
}

func TestRouter_Typing_Excludes_The_Sender(t *testing.T) {
	router, registry, rooms := newMockedRouter(t)
	roomID := domain.RoomID("42")

	// Given three members, one of them the sender
	rooms.EXPECT().MembersOf(roomID).Return([]string{"conn-a", "conn-sender", "conn-b"}).Times(1)

	// Then only the two others receive the signal
	registry.EXPECT().Send("conn-a", gomock.Any()).Times(1)
	registry.EXPECT().Send("conn-b", gomock.Any()).Times(1)

	// When the sender types
	router.Typing(roomID, domain.Identity{ID: "1"}, "conn-sender")
}

func TestRouter_Chat_Reaches_The_Sender_Too(t *testing.T) {
	req := require.New(t)
	router, registry, rooms := newMockedRouter(t)
	roomID := domain.RoomID("42")

	// Given a room where the sender is a member
	rooms.EXPECT().MembersOf(roomID).Return([]string{"conn-sender", "conn-b"}).Times(1)

	// Then the sender receives its own message back like everyone else
	sent := map[string]domain.Outbound{}
	registry.EXPECT().Send(gomock.Any(), gomock.Any()).Do(func(connID string, msg domain.Outbound) {
		sent[connID] = msg
	}).Times(2)

	// When a chat message is broadcast
	router.Chat(roomID, domain.Identity{ID: "1", Name: "Ana"}, "hello")

	req.Contains(sent, "conn-sender")
	req.Contains(sent, "conn-b")
	payload, ok := sent["conn-b"].Payload.(domain.ChatMessage)
	req.True(ok)
	req.Equal("hello", payload.Message)
	req.Equal(roomID, payload.EventID)
	req.False(payload.TS.IsZero())
}

func TestRouter_Chat_Applies_The_Filter(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockIRegistry(ctrl)
	rooms := mocks.NewMockIRoomTable(ctrl)
	filter := mocks.NewMockIChatFilter(ctrl)
	log := slog.Default()
	router := NewRouter(log, registry, rooms, filter, observability.NewStats(log))
	roomID := domain.RoomID("42")

	// Given a filter that masks the body
	filter.EXPECT().Censor("bad word").Return("*** word").Times(1)
	rooms.EXPECT().MembersOf(roomID).Return([]string{"conn-a"}).Times(1)
	registry.EXPECT().Send("conn-a", gomock.Any()).Do(func(_ string, msg domain.Outbound) {
		payload, ok := msg.Payload.(domain.ChatMessage)
		req.True(ok)
		req.Equal("*** word", payload.Message)
	}).Times(1)

	// When the chat body passes through the router
	router.Chat(roomID, domain.Identity{ID: "1"}, "bad word")
}

type bogusNotification struct{}

func (bogusNotification) Kind() domain.NotificationKind { return "bogus" }

func TestRouter_Unknown_Notification_Is_Dropped(t *testing.T) {
	router, _, _ := newMockedRouter(t)

	// When a notification the router has no case for arrives, it is logged
	// and dropped without touching registry or rooms
	router.Publish(bogusNotification{})
}
