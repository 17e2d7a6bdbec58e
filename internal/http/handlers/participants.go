package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

type ParticipantLister interface {
	ListParticipants(ctx context.Context, eventName string) []participant.Participant
}

type ParticipantsHandler struct {
	store ParticipantLister
	log   *slog.Logger
}

func NewParticipantsHandler(store ParticipantLister, log *slog.Logger) *ParticipantsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ParticipantsHandler{store: store, log: log}
}

// ListParticipants serves GET /participants?event=<name>. Without the query
// parameter it returns the participants of every event.
func (h *ParticipantsHandler) ListParticipants(ctx *gin.Context) {
	event := ctx.Query("event")
	reqCtx := ctx.Request.Context()

	h.log.DebugContext(reqCtx, "fetching participants", "event", event)

	participants := h.store.ListParticipants(reqCtx, event)

	h.log.DebugContext(reqCtx, "participants found", "event", event, "count", len(participants))

	ctx.JSON(http.StatusOK, participants)
}
