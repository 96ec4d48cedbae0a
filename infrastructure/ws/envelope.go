package ws

import (
	"campus-live/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Inbound control message types.
const (
	TypeJoinEvent  = "join-event"
	TypeLeaveEvent = "leave-event"
	TypeChatSend   = "chat:send"
	TypeChatTyping = "chat:typing"
)

type baseEnvelope struct {
	Type string `json:"type" validate:"required"`
}

type joinEnvelope struct {
	EventID domain.RoomID   `json:"eventId" validate:"required"`
	User    domain.Identity `json:"user"`
}

type leaveEnvelope struct {
	EventID domain.RoomID   `json:"eventId" validate:"required"`
	User    domain.Identity `json:"user"`
}

type chatEnvelope struct {
	EventID domain.RoomID   `json:"eventId" validate:"required"`
	User    domain.Identity `json:"user"`
	Message string          `json:"message"`
}

// Stop is accepted for wire compatibility but the server keeps no typing
// state: a stop signal is simply not re-broadcast, the indicator decays on
// the receiving clients.
type typingEnvelope struct {
	EventID domain.RoomID   `json:"eventId" validate:"required"`
	User    domain.Identity `json:"user"`
	Stop    bool            `json:"stop"`
}
