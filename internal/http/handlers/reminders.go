package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/maiopinion/internal/http/response"
)

type ReminderScanner interface {
	Scan(ctx context.Context) (int, error)
}

type ReminderHandler struct {
	scanner ReminderScanner
}

func NewReminderHandler(s ReminderScanner) *ReminderHandler {
	return &ReminderHandler{scanner: s}
}

func (h *ReminderHandler) Send(c *gin.Context) {
	n, err := h.scanner.Scan(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sent": n})
}
