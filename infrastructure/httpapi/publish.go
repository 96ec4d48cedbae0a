// Package httpapi exposes the publish ingress: the endpoint a separately
// deployed REST layer calls after each confirmed database write. It lives
// on the internal network; the coordinator assumes callers are trusted.
package httpapi

import (
	"campus-live/domain"
	"campus-live/errors"
	"campus-live/services"
	"encoding/json"
	"log/slog"
	"net/http"
)

type PublishHandler struct {
	log *slog.Logger
	svc services.IBroadcastService
}

func NewPublishHandler(log *slog.Logger, svc services.IBroadcastService) *PublishHandler {
	return &PublishHandler{log: log, svc: svc}
}

type publishRequest struct {
	Kind    domain.NotificationKind `json:"kind"`
	EventID domain.RoomID           `json:"eventId"`
	// Payload carries the written entity, or the deleted comment's id for
	// comment:deleted. Deliberately opaque.
	Payload json.RawMessage `json:"payload"`
}

func (h *PublishHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /internal/publish", h.HandlePublish)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// HandlePublish accepts one notification and fans it out synchronously.
// 202 on accepted; 400 on unknown kind or a room-scoped kind without an
// event id. There is nothing to retry server-side: a missed notification
// is a silently missed update by design.
func (h *PublishHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if needsRoom(req.Kind) && req.EventID == "" {
		http.Error(w, errors.ErrMissingEventID.Error(), http.StatusBadRequest)
		return
	}

	switch req.Kind {
	case domain.KindEventCreated:
		h.svc.EventCreated(req.Payload)
	case domain.KindEventUpdated:
		h.svc.EventUpdated(req.Payload, req.EventID)
	case domain.KindEventDeleted:
		h.svc.EventDeleted(req.EventID)
	case domain.KindRSVPUpdated:
		h.svc.RSVPUpdated(req.Payload, req.EventID)
	case domain.KindCommentCreated:
		h.svc.CommentCreated(req.Payload, req.EventID)
	case domain.KindCommentDeleted:
		h.svc.CommentDeleted(req.Payload, req.EventID)
	default:
		http.Error(w, errors.ErrUnknownKind.Error(), http.StatusBadRequest)
		return
	}

	h.log.Debug("Notification accepted", "kind", string(req.Kind), "event_id", string(req.EventID))
	w.WriteHeader(http.StatusAccepted)
}

// needsRoom reports whether the kind requires an event id: either to
// resolve the room audience or, for event:deleted, to fill its payload.
func needsRoom(kind domain.NotificationKind) bool {
	switch kind {
	case domain.KindEventUpdated, domain.KindEventDeleted, domain.KindRSVPUpdated,
		domain.KindCommentCreated, domain.KindCommentDeleted:
		return true
	default:
		return false
	}
}
