package services

import (
	"campus-live/contract"
	"campus-live/domain"
	"encoding/json"
)

// IBroadcastService is the collaborator interface consumed by the REST
// layer: one call per completed database write. Payloads are opaque here,
// the coordinator never inspects entity shapes it does not own.
type IBroadcastService interface {
	EventCreated(event json.RawMessage)
	EventUpdated(event json.RawMessage, eventID domain.RoomID)
	EventDeleted(eventID domain.RoomID)
	RSVPUpdated(rsvp json.RawMessage, eventID domain.RoomID)
	CommentCreated(comment json.RawMessage, eventID domain.RoomID)
	CommentDeleted(commentID json.RawMessage, eventID domain.RoomID)
}

type BroadcastService struct {
	broadcaster contract.IBroadcaster
}

func NewBroadcastService(broadcaster contract.IBroadcaster) *BroadcastService {
	return &BroadcastService{broadcaster: broadcaster}
}

func (s *BroadcastService) EventCreated(event json.RawMessage) {
	s.broadcaster.Publish(domain.EventCreated{Event: event})
}

func (s *BroadcastService) EventUpdated(event json.RawMessage, eventID domain.RoomID) {
	s.broadcaster.Publish(domain.EventUpdated{Event: event, EventID: eventID})
}

func (s *BroadcastService) EventDeleted(eventID domain.RoomID) {
	s.broadcaster.Publish(domain.EventDeleted{EventID: eventID})
}

func (s *BroadcastService) RSVPUpdated(rsvp json.RawMessage, eventID domain.RoomID) {
	s.broadcaster.Publish(domain.RSVPUpdated{RSVP: rsvp, EventID: eventID})
}

func (s *BroadcastService) CommentCreated(comment json.RawMessage, eventID domain.RoomID) {
	s.broadcaster.Publish(domain.CommentCreated{Comment: comment, EventID: eventID})
}

func (s *BroadcastService) CommentDeleted(commentID json.RawMessage, eventID domain.RoomID) {
	s.broadcaster.Publish(domain.CommentDeleted{CommentID: commentID, EventID: eventID})
}
