package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/eventmail/internal/domain/email"
)

type EmailDispatcher interface {
	Run(ctx context.Context, job email.Job) (email.Result, error)
}

type EmailsHandler struct {
	dispatcher EmailDispatcher
}

func NewEmailsHandler(dispatcher EmailDispatcher) *EmailsHandler {
	return &EmailsHandler{dispatcher: dispatcher}
}

// SendEmails serves POST /send-emails. A well-formed request always reports
// success; individual delivery failures only show up in the message tally.
func (h *EmailsHandler) SendEmails(ctx *gin.Context) {
	var req email.SendEmailsRequest

	if bindErr := BindJSON(ctx, &req); bindErr != nil {
		msg := "Invalid request body"
		if bindErr.Validation {
			msg = "Missing required fields"
		}
		RespondSendResult(ctx, http.StatusBadRequest, false, msg, bindErr.Details)
		return
	}

	res, err := h.dispatcher.Run(ctx.Request.Context(), email.NewJobFromRequest(req))
	if err != nil {
		RespondSendResult(ctx, http.StatusInternalServerError, false, "Error: "+err.Error(), nil)
		return
	}

	RespondSendResult(ctx, http.StatusOK, true, res.Message(), nil)
}
