package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/services"
)

type ProfileHandler struct {
	svc      *services.ProfileService
	comments *services.CommentService
	log      *slog.Logger
}

func NewProfileHandler(svc *services.ProfileService, comments *services.CommentService, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, comments: comments, log: log}
}

func (h *ProfileHandler) GetProfiles(c *gin.Context) {
	profiles, err := h.svc.List(c.Request.Context(), middleware.Viewer(c), c.Query("ordering"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates the owner's name, content and image. Counts and ownership are read-only.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input services.ProfileUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.svc.Update(c.Request.Context(), middleware.Viewer(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetProfileComments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.ByProfile(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
