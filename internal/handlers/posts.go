package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/services"
)

type PostHandler struct {
	svc *services.PostService
	log *slog.Logger
}

func NewPostHandler(svc *services.PostService, log *slog.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

// GetPosts returns every plant-in-focus post, newest first
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context(), middleware.Viewer(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	post, err := h.svc.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost creates a post (staff only)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.PostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.svc.Create(c.Request.Context(), middleware.Viewer(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost replaces a post (staff only)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.PostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	post, err := h.svc.Update(c.Request.Context(), middleware.Viewer(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post with its comments and likes (staff only)
func (h *PostHandler) DeletePost(c *gin.Context) {
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
