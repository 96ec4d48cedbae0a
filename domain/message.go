// Package domain contains core concepts of the live coordinator.
// This file defines the outbound wire messages pushed to connections.
// Messages are immutable and bounded to one broadcast call.
package domain

import "time"

// Outbound message types as seen by clients.
const (
	TypeEventCreated   = "event:created"
	TypeEventUpdated   = "event:updated"
	TypeEventDeleted   = "event:deleted"
	TypeRSVPUpdated    = "rsvp:updated"
	TypeCommentCreated = "comment:created"
	TypeCommentDeleted = "comment:deleted"
	TypeChatNew        = "chat:new"
	TypeChatTyping     = "chat:typing"
	TypeUserJoined     = "user:joined"
	TypeUserLeft       = "user:left"
	TypeRoomCount      = "room:count"
)

// Outbound is one frame delivered to a connection. Never persisted.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ChatMessage is an ephemeral room-wide chat broadcast, sender included.
type ChatMessage struct {
	EventID RoomID    `json:"eventId"`
	User    Identity  `json:"user"`
	Message string    `json:"message"`
	TS      time.Time `json:"ts"`
}

// TypingSignal is fire-and-forget; staleness is the receiving client's
// problem, the server keeps no typing state.
type TypingSignal struct {
	User Identity `json:"user"`
}

// PresenceChange backs user:joined and user:left, always excluding the subject.
type PresenceChange struct {
	User    Identity `json:"user"`
	EventID RoomID   `json:"eventId"`
}

// RoomCount is pushed to the whole room, subject included.
type RoomCount struct {
	EventID RoomID `json:"eventId"`
	Count   int    `json:"count"`
}
