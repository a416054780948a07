package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foraginglink/backend/internal/rules"
	"github.com/foraginglink/backend/internal/serialize"
	"github.com/foraginglink/backend/internal/services"
)

// respondError maps service errors to HTTP responses. Unknown errors are logged and hidden.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var (
		nested     *rules.NestingTooDeepError
		incomplete *rules.IncompleteDetailError
		invalid    *rules.ValidationError
		transition *rules.InvalidTransitionError
		duplicate  *rules.DuplicateError
		notFound   *rules.NotFoundError
		full       *rules.CourseFullError
	)

	switch {
	case errors.As(err, &nested):
		c.JSON(http.StatusBadRequest, gin.H{"replying_comment": []string{nested.Error()}})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusBadRequest, gin.H{incomplete.Field: []string{incomplete.Reason}})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{invalid.Field: []string{invalid.Message}})
	case errors.As(err, &transition):
		c.JSON(http.StatusBadRequest, gin.H{"status": []string{transition.Error()}})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusBadRequest, gin.H{"detail": duplicate.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.As(err, &full):
		c.JSON(http.StatusConflict, gin.H{"detail": full.Error()})
	case errors.Is(err, rules.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{err.Error()}})
	case errors.Is(err, serialize.ErrInvalidBody):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		_ = c.Error(err)
		log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "A server error occurred."})
	}
}

// bindBody reads the request body through serialize.Bind and writes the error
// response itself when the body is rejected.
func bindBody(c *gin.Context, log *slog.Logger, dst any, opts serialize.Options) bool {
	ignored, err := serialize.Bind(c.Request.Body, dst, opts)
	if err != nil {
		respondError(c, log, err)
		return false
	}
	if len(ignored) > 0 {
		log.Debug("ignored read-only fields", "path", c.FullPath(), "fields", ignored)
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

// paramID reads a numeric path parameter. A malformed id is treated as not found.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

// queryID reads an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{name: []string{"A valid integer is required."}})
		return nil, false
	}
	return &id, true
}
