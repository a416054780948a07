package handlers

import (
	"log/slog"

	"github.com/foraginglink/backend/internal/database"
	"github.com/foraginglink/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Post         *PostHandler
	Comment      *CommentHandler
	Like         *LikeHandler
	Follower     *FollowerHandler
	Course       *CourseHandler
	Registration *RegistrationHandler
	Health       *HealthHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db database.Service, svcs *services.Services, log *slog.Logger) *Handler {
	log = log.With("component", "handlers")

	return &Handler{
		Auth:         NewAuthHandler(svcs.Auth, log),
		Profile:      NewProfileHandler(svcs.Profiles, svcs.Comments, log),
		Post:         NewPostHandler(svcs.Posts, log),
		Comment:      NewCommentHandler(svcs.Comments, log),
		Like:         NewLikeHandler(svcs.Likes, log),
		Follower:     NewFollowerHandler(svcs.Followers, log),
		Course:       NewCourseHandler(svcs.Courses, svcs.Registrations, log),
		Registration: NewRegistrationHandler(svcs.Registrations, log),
		Health:       NewHealthHandler(db),
	}
}
