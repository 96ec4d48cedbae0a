package domain

import "encoding/json"

// Notification is a completed CRUD mutation published into the coordinator
// for fan-out. One variant per kind; the router matches exhaustively so a
// missing case is a compile-time smell, not a runtime "missing field".
// Payloads stay opaque json.RawMessage: the coordinator never inspects
// entity shapes owned by the REST layer.
type Notification interface {
	Kind() NotificationKind
}

type NotificationKind string

const (
	KindEventCreated   NotificationKind = "event:created"
	KindEventUpdated   NotificationKind = "event:updated"
	KindEventDeleted   NotificationKind = "event:deleted"
	KindRSVPUpdated    NotificationKind = "rsvp:updated"
	KindCommentCreated NotificationKind = "comment:created"
	KindCommentDeleted NotificationKind = "comment:deleted"
)

type EventCreated struct {
	Event json.RawMessage
}

func (n EventCreated) Kind() NotificationKind { return KindEventCreated }

type EventUpdated struct {
	Event   json.RawMessage
	EventID RoomID
}

func (n EventUpdated) Kind() NotificationKind { return KindEventUpdated }

type EventDeleted struct {
	EventID RoomID
}

func (n EventDeleted) Kind() NotificationKind { return KindEventDeleted }

type RSVPUpdated struct {
	RSVP    json.RawMessage
	EventID RoomID
}

func (n RSVPUpdated) Kind() NotificationKind { return KindRSVPUpdated }

type CommentCreated struct {
	Comment json.RawMessage
	EventID RoomID
}

func (n CommentCreated) Kind() NotificationKind { return KindCommentCreated }

type CommentDeleted struct {
	CommentID json.RawMessage
	EventID   RoomID
}

func (n CommentDeleted) Kind() NotificationKind { return KindCommentDeleted }
