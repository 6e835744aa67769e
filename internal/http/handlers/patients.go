package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/maiopinion/internal/domain/patient"
	"github.com/yungbote/maiopinion/internal/http/response"
	"github.com/yungbote/maiopinion/internal/platform/apierr"
	"github.com/yungbote/maiopinion/internal/store"
)

type PatientHandler struct {
	store store.PatientStore
	now   func() time.Time
}

func NewPatientHandler(st store.PatientStore) *PatientHandler {
	return &PatientHandler{store: st, now: time.Now}
}

func (h *PatientHandler) List(c *gin.Context) {
	rows, err := h.store.All(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if rows == nil {
		rows = []patient.Patient{}
	}
	response.RespondOK(c, gin.H{"patients": rows, "count": len(rows)})
}

func (h *PatientHandler) Get(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			err = apierr.NotFound("patient_not_found", err)
		}
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, p)
}

func (h *PatientHandler) Stats(c *gin.Context) {
	rows, err := h.store.All(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, patient.Summarize(rows, h.now()))
}
