package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendEmailsResponse is the body of every /send-emails response.
type SendEmailsResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// RespondError writes {"error": message}.
func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

func RespondInternal(ctx *gin.Context, err error) {
	RespondError(ctx, http.StatusInternalServerError, err.Error())
}

func RespondSendResult(ctx *gin.Context, status int, success bool, message string, details interface{}) {
	ctx.JSON(status, SendEmailsResponse{
		Success: success,
		Message: message,
		Details: details,
	})
}
