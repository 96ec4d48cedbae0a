// Package ws is the websocket transport of the coordinator: one upgraded
// connection per client, inbound control envelopes in, outbound frames out.
package ws

import (
	"campus-live/contract"
	"campus-live/errors"
	"campus-live/observability"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	log         *slog.Logger
	coordinator contract.ICoordinator
	opts        Options
	stats       *observability.Stats
}

func NewHandler(log *slog.Logger, coordinator contract.ICoordinator,
	opts Options, stats *observability.Stats) *Handler {
	return &Handler{
		log:         log,
		coordinator: coordinator,
		opts:        opts,
		stats:       stats,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Upgrade failed", "error", err)
		return
	}

	connID := uuid.NewString()
	client := NewClient(connID, conn, h.opts, h.log, func() {
		h.coordinator.Disconnect(connID)
	})
	h.coordinator.Connect(connID, client)

	go client.WritePump()
	go client.ReadPump(h.handleMessage)
}

// handleMessage dispatches one inbound control envelope. These messages
// are fire-and-forget: a malformed one is counted and logged, nothing is
// sent back to the peer.
func (h *Handler) handleMessage(client *Client, raw []byte) {
	var base baseEnvelope
	if err := json.Unmarshal(raw, &base); err != nil || base.Type == "" {
		h.drop(client, "unparseable frame", err)
		return
	}

	switch base.Type {
	case TypeJoinEvent:
		var msg joinEnvelope
		if err := decode(raw, &msg); err != nil {
			h.drop(client, "join-event missing eventId", err)
			return
		}
		h.coordinator.Join(client.ID, msg.EventID, msg.User)

	case TypeLeaveEvent:
		var msg leaveEnvelope
		if err := decode(raw, &msg); err != nil {
			h.drop(client, "leave-event missing eventId", err)
			return
		}
		h.coordinator.Leave(client.ID, msg.EventID, msg.User)

	case TypeChatSend:
		var msg chatEnvelope
		if err := decode(raw, &msg); err != nil {
			h.drop(client, "chat:send missing eventId", err)
			return
		}
		h.coordinator.Chat(client.ID, msg.EventID, msg.User, msg.Message)

	case TypeChatTyping:
		var msg typingEnvelope
		if err := decode(raw, &msg); err != nil {
			h.drop(client, "chat:typing missing eventId", err)
			return
		}
		if msg.Stop {
			return
		}
		h.coordinator.Typing(client.ID, msg.EventID, msg.User)

	default:
		h.drop(client, "unknown message type "+base.Type, nil)
	}
}

func decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidEnvelope, err)
	}
	return nil
}

func (h *Handler) drop(client *Client, reason string, err error) {
	h.stats.IncrMalformed()
	h.log.Warn("Dropping control message", "conn_id", client.ID, "reason", reason, "error", err)
}
