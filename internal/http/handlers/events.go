package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/eventmail/internal/domain/participant"
)

type EventLister interface {
	ListEvents(ctx context.Context) ([]participant.Event, error)
}

type EventsHandler struct {
	store EventLister
}

func NewEventsHandler(store EventLister) *EventsHandler {
	return &EventsHandler{store: store}
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	events, err := h.store.ListEvents(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}
