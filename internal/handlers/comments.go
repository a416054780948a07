package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/middleware"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/serialize"
	"github.com/foraginglink/backend/internal/services"
)

// The detail endpoint accepts a full comment body but never moves the comment.
var commentDetailOptions = serialize.ReadOnly("plant_in_focus_post", "replying_comment")

type CommentHandler struct {
	svc *services.CommentService
	log *slog.Logger
}

func NewCommentHandler(svc *services.CommentService, log *slog.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

// GetComments lists comments, filterable by post, parent comment and owner username, and searchable.
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, ok := queryID(c, "plant_in_focus_post")
	if !ok {
		return
	}
	parentID, ok := queryID(c, "replying_comment")
	if !ok {
		return
	}

	comments, err := h.svc.List(c.Request.Context(), middleware.Viewer(c), services.CommentFilter{
		PostID:            postID,
		ReplyingCommentID: parentID,
		OwnerUsername:     c.Query("owner__username"),
		Search:            c.Query("search"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment creates a comment or a reply to a top-level comment
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var input models.CommentRequest
	if !bindBody(c, h.log, &input, serialize.Options{}) {
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), middleware.Viewer(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) GetComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	comment, err := h.svc.Get(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input models.CommentRequest
	if !bindBody(c, h.log, &input, commentDetailOptions) {
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), middleware.Viewer(c), id, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment and its replies (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
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

func (h *CommentHandler) GetReplies(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	replies, err := h.svc.Replies(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}

func (h *CommentHandler) GetReply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	replyID, ok := paramID(c, "reply_id")
	if !ok {
		return
	}

	reply, err := h.svc.Reply(c.Request.Context(), middleware.Viewer(c), id, replyID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
