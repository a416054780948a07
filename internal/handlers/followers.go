package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/services"
)

type FollowerHandler struct {
	svc *services.FollowerService
	log *slog.Logger
}

func NewFollowerHandler(svc *services.FollowerService, log *slog.Logger) *FollowerHandler {
	return &FollowerHandler{svc: svc, log: log}
}

func (h *FollowerHandler) GetFollowers(c *gin.Context) {
	ownerID, ok := queryID(c, "owner")
	if !ok {
		return
	}
	followedID, ok := queryID(c, "followed")
	if !ok {
		return
	}

	followers, err := h.svc.List(c.Request.Context(), services.FollowerFilter{OwnerID: ownerID, FollowedID: followedID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, followers)
}

// FollowUser makes the current user follow another user
func (h *FollowerHandler) FollowUser(c *gin.Context) {
	var input models.CreateFollowerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	follow, err := h.svc.Create(c.Request.Context(), middleware.Viewer(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, follow)
}

func (h *FollowerHandler) GetFollower(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	follow, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, follow)
}

// UnfollowUser removes a follow (owner only)
func (h *FollowerHandler) UnfollowUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), middleware.Viewer(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
