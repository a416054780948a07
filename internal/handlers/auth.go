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

type AuthHandler struct {
	svc *services.AuthService
	log *slog.Logger
}

func NewAuthHandler(svc *services.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), middleware.Viewer(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// The current-user body mirrors GET /auth/user; the profile fields are shown there but edited on the profile.
var currentUserOptions = serialize.ReadOnly("profile_id", "profile_image")

// UpdateMe lets the current user change username and email. Profile fields are read-only here.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var input services.UserUpdate
	if !bindBody(c, h.log, &input, currentUserOptions) {
		return
	}

	user, err := h.svc.UpdateCurrentUser(c.Request.Context(), middleware.Viewer(c).UserID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
