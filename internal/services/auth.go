package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

type AuthService struct {
	db        *gorm.DB
	tokens    *TokenIssuer
	imageBase string
	logger    *slog.Logger
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer, imageBase string, log *slog.Logger) *AuthService {
	return &AuthService{db: db, tokens: tokens, imageBase: imageBase, logger: log.With("component", "auth")}
}

type CurrentUser struct {
	models.User
	ProfileID    int    `json:"profile_id"`
	ProfileImage string `json:"profile_image"`
}

// UserUpdate has the shape of CurrentUser. The profile fields belong to the
// profile and are rejected here.
type UserUpdate struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	ProfileID    *int    `json:"profile_id"`
	ProfileImage *string `json:"profile_image"`
}

// Register creates the user and its profile in one transaction and returns a session token.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, &rules.ValidationError{Field: "username", Message: "this field is required"}
	}
	if req.Password1 != req.Password2 {
		return nil, &rules.ValidationError{Field: "password2", Message: "the two password fields didn't match"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hashed),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if rules.IsUniqueViolation(err) {
				return &rules.ValidationError{Field: "username", Message: "a user with that username already exists"}
			}
			return err
		}
		_, err := CreateProfileFor(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.session(&user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(&user)
}

func (s *AuthService) session(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*CurrentUser, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err, "user", userID)
	}

	current := &CurrentUser{User: user}

	var profile models.Profile
	err := s.db.WithContext(ctx).Where("owner_id = ?", userID).First(&profile).Error
	switch {
	case err == nil:
		current.ProfileID = profile.ID
		current.ProfileImage = imageURL(s.imageBase, profile.Image)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	return current, nil
}

func (s *AuthService) UpdateCurrentUser(ctx context.Context, userID int, update UserUpdate) (*CurrentUser, error) {
	if update.ProfileID != nil {
		return nil, &rules.ValidationError{Field: "profile_id", Message: "the profile of a user cannot be changed"}
	}
	if update.ProfileImage != nil {
		return nil, &rules.ValidationError{Field: "profile_image", Message: "change the image through the profile"}
	}

	changes := map[string]any{}
	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, &rules.ValidationError{Field: "username", Message: "this field may not be blank"}
		}
		changes["username"] = username
	}
	if update.Email != nil {
		changes["email"] = strings.TrimSpace(*update.Email)
	}

	if len(changes) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(changes)
		if res.Error != nil {
			if rules.IsUniqueViolation(res.Error) {
				return nil, &rules.ValidationError{Field: "username", Message: "a user with that username already exists"}
			}
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, &rules.NotFoundError{Resource: "user", ID: userID}
		}
	}

	return s.CurrentUser(ctx, userID)
}

// SetStaff grants or revokes staff rights for the named user.
func (s *AuthService) SetStaff(ctx context.Context, username string, staff bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Update("is_staff", staff)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %q not found", username)
	}
	s.logger.Info("staff flag changed", "username", username, "is_staff", staff)
	return nil
}
