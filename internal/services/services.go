package services

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/cache"
	"github.com/foraginglink/backend/internal/config"
	"github.com/foraginglink/backend/internal/notify"
	"github.com/foraginglink/backend/internal/rules"
)

const cacheSize = 128

// Viewer is the user a request is made on behalf of. The zero value is an anonymous viewer.
type Viewer struct {
	UserID  int
	IsStaff bool
}

func (v Viewer) Authenticated() bool {
	return v.UserID != 0
}

func (v Viewer) Owns(ownerID *int) bool {
	return v.Authenticated() && ownerID != nil && *ownerID == v.UserID
}

type Services struct {
	Tokens        *TokenIssuer
	Auth          *AuthService
	Profiles      *ProfileService
	Posts         *PostService
	Comments      *CommentService
	Likes         *LikeService
	Followers     *FollowerService
	Courses       *CourseService
	Registrations *RegistrationService
}

func New(db *gorm.DB, cfg *config.Config, notifier notify.Notifier, log *slog.Logger) *Services {
	tokens := NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	postCache := cache.New[[]PostView](cacheSize, cfg.CacheTTL)
	courses := NewCourseService(db, cache.New[[]CourseView](cacheSize, cfg.CacheTTL), log)

	return &Services{
		Tokens:        tokens,
		Auth:          NewAuthService(db, tokens, cfg.ImageBase, log),
		Profiles:      NewProfileService(db, cfg.ImageBase, log),
		Posts:         NewPostService(db, postCache, log),
		Comments:      NewCommentService(db, cfg.ImageBase, postCache, log),
		Likes:         NewLikeService(db, postCache, log),
		Followers:     NewFollowerService(db, log),
		Courses:       courses,
		Registrations: NewRegistrationService(db, courses, notifier, log),
	}
}

func notFound(err error, resource string, id int) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &rules.NotFoundError{Resource: resource, ID: id}
	}
	return err
}

func imageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return base + path
}
