package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/services"
)

type RegistrationHandler struct {
	svc *services.RegistrationService
	log *slog.Logger
}

func NewRegistrationHandler(svc *services.RegistrationService, log *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, log: log}
}

// CreateRegistration books a place on a course for the current user
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	var input models.RegistrationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	reg, err := h.svc.Create(c.Request.Context(), middleware.Viewer(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reg, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// UpdateRegistration lets staff edit a confirmed registration or change its status
func (h *RegistrationHandler) UpdateRegistration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.RegistrationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	reg, err := h.svc.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

// CancelRegistration cancels a registration and anonymizes its contact details
func (h *RegistrationHandler) CancelRegistration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reg, err := h.svc.Cancel(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *RegistrationHandler) DeleteRegistration(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
