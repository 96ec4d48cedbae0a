package runtime

import (
	"campus-live/contract"
	"campus-live/domain"
	"campus-live/observability"
	"fmt"
	"log/slog"
	"time"
)

// Router resolves the audience of each notification and fans out through
// the registry. Fan-out is synchronous: delivery is attempted to every
// resolved member before the call returns, but each individual send is
// non-blocking on the peer. No ordering guarantee between peers.
type Router struct {
	log      *slog.Logger
	registry contract.IRegistry
	rooms    contract.IRoomTable
	filter   contract.IChatFilter
	stats    *observability.Stats
	now      func() time.Time
}

func NewRouter(log *slog.Logger, registry contract.IRegistry,
	rooms contract.IRoomTable, filter contract.IChatFilter,
	stats *observability.Stats) *Router {
	return &Router{
		log:      log,
		registry: registry,
		rooms:    rooms,
		filter:   filter,
		stats:    stats,
		now:      time.Now,
	}
}

// Publish fans one domain-event notification out to its audience.
//
// Audience rules: created/deleted are global only, updated/rsvp go to both
// the global channel (list views) and the event's room (open detail views)
// so a room member receives two distinct frames by design, comments stay
// room-only. An empty audience is a correctly handled no-op.
func (r *Router) Publish(n domain.Notification) {
	r.stats.IncrBroadcasts()
	switch v := n.(type) {
	case domain.EventCreated:
		r.toAll(domain.Outbound{Type: domain.TypeEventCreated, Payload: eventPayload{Event: v.Event}})
	case domain.EventUpdated:
		msg := domain.Outbound{Type: domain.TypeEventUpdated, Payload: eventPayload{Event: v.Event}}
		r.toAll(msg)
		r.toRoom(v.EventID, msg, "")
	case domain.EventDeleted:
		r.toAll(domain.Outbound{Type: domain.TypeEventDeleted, Payload: eventIDPayload{EventID: v.EventID}})
	case domain.RSVPUpdated:
		msg := domain.Outbound{Type: domain.TypeRSVPUpdated, Payload: rsvpPayload{RSVP: v.RSVP, EventID: v.EventID}}
		r.toAll(msg)
		r.toRoom(v.EventID, msg, "")
	case domain.CommentCreated:
		r.toRoom(v.EventID, domain.Outbound{Type: domain.TypeCommentCreated,
			Payload: commentPayload{Comment: v.Comment, EventID: v.EventID}}, "")
	case domain.CommentDeleted:
		r.toRoom(v.EventID, domain.Outbound{Type: domain.TypeCommentDeleted,
			Payload: commentIDPayload{CommentID: v.CommentID, EventID: v.EventID}}, "")
	default:
		r.log.Warn(fmt.Sprintf("Dropping notification of unknown kind %T", n))
	}
}

// Chat broadcasts a chat message room-wide, sender included: the sender's
// own frame comes back like everyone else's, one source of truth for
// timestamps and moderation.
func (r *Router) Chat(roomID domain.RoomID, from domain.Identity, body string) {
	if r.filter != nil {
		body = r.filter.Censor(body)
	}
	r.toRoom(roomID, domain.Outbound{Type: domain.TypeChatNew, Payload: domain.ChatMessage{
		EventID: roomID,
		User:    from,
		Message: body,
		TS:      r.now().UTC(),
	}}, "")
}

// Typing reaches every other current member, never the sender.
func (r *Router) Typing(roomID domain.RoomID, from domain.Identity, senderConnID string) {
	r.toRoom(roomID, domain.Outbound{Type: domain.TypeChatTyping,
		Payload: domain.TypingSignal{User: from}}, senderConnID)
}

// UserJoined notifies a room about a new member, excluding the joiner.
func (r *Router) UserJoined(roomID domain.RoomID, joined domain.Identity, joinerConnID string) {
	r.toRoom(roomID, domain.Outbound{Type: domain.TypeUserJoined,
		Payload: domain.PresenceChange{User: joined, EventID: roomID}}, joinerConnID)
}

// UserLeft notifies the remaining members about a departure.
func (r *Router) UserLeft(roomID domain.RoomID, left domain.Identity) {
	r.toRoom(roomID, domain.Outbound{Type: domain.TypeUserLeft,
		Payload: domain.PresenceChange{User: left, EventID: roomID}}, "")
}

// RoomCount pushes the current presence count to the whole room.
func (r *Router) RoomCount(roomID domain.RoomID, count int) {
	r.toRoom(roomID, domain.Outbound{Type: domain.TypeRoomCount,
		Payload: domain.RoomCount{EventID: roomID, Count: count}}, "")
}

func (r *Router) toAll(msg domain.Outbound) {
	r.registry.Broadcast(msg)
}

// toRoom snapshots the membership, then sends outside the room lock so a
// slow peer never stalls joins and leaves on that room. A member evicted
// between snapshot and send is skipped by the registry liveness check.
func (r *Router) toRoom(roomID domain.RoomID, msg domain.Outbound, exclude string) {
	for _, connID := range r.rooms.MembersOf(roomID) {
		if connID == exclude {
			continue
		}
		r.registry.Send(connID, msg)
	}
}

type eventPayload struct {
	Event any `json:"event"`
}

type eventIDPayload struct {
	EventID domain.RoomID `json:"eventId"`
}

type rsvpPayload struct {
	RSVP    any           `json:"rsvp"`
	EventID domain.RoomID `json:"eventId"`
}

type commentPayload struct {
	Comment any           `json:"comment"`
	EventID domain.RoomID `json:"eventId"`
}

type commentIDPayload struct {
	CommentID any           `json:"commentId"`
	EventID   domain.RoomID `json:"eventId"`
}
