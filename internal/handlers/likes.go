package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/services"
)

type LikeHandler struct {
	svc *services.LikeService
	log *slog.Logger
}

func NewLikeHandler(svc *services.LikeService, log *slog.Logger) *LikeHandler {
	return &LikeHandler{svc: svc, log: log}
}

func (h *LikeHandler) GetLikes(c *gin.Context) {
	ownerID, ok := queryID(c, "owner")
	if !ok {
		return
	}
	postID, ok := queryID(c, "plant_in_focus_post")
	if !ok {
		return
	}
	commentID, ok := queryID(c, "comment")
	if !ok {
		return
	}

	likes, err := h.svc.List(c.Request.Context(), services.LikeFilter{OwnerID: ownerID, PostID: postID, CommentID: commentID})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (h *LikeHandler) CreateLike(c *gin.Context) {
	var input models.CreateLikeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	like, err := h.svc.Create(c.Request.Context(), middleware.Viewer(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

func (h *LikeHandler) GetLike(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	like, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, like)
}

func (h *LikeHandler) DeleteLike(c *gin.Context) {
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
