package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

// CreateProfileFor creates the profile of a newly registered user. It runs on
// the caller's transaction so a user never exists without a profile.
func CreateProfileFor(tx *gorm.DB, user *models.User) (*models.Profile, error) {
	profile := &models.Profile{
		OwnerID: user.ID,
		Image:   models.DefaultAvatarPath,
	}
	if err := tx.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

var profileOrderings = map[string]string{
	"created_at":      "profiles.created_at",
	"comments_count":  "comments_count",
	"followers_count": "followers_count",
	"following_count": "following_count",
}

type ProfileView struct {
	models.ProfileStats
	ImageURL    string `json:"image"`
	IsOwner     bool   `json:"is_owner"`
	FollowingID *int   `json:"following_id"`
}

type ProfileUpdate struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
	Image   *string `json:"image"`
}

type ProfileService struct {
	db        *gorm.DB
	imageBase string
	logger    *slog.Logger
}

func NewProfileService(db *gorm.DB, imageBase string, log *slog.Logger) *ProfileService {
	return &ProfileService{db: db, imageBase: imageBase, logger: log.With("component", "profiles")}
}

// ParseOrdering maps an ordering parameter such as "-followers_count" to an ORDER BY clause.
func ParseOrdering(param string) (string, error) {
	if param == "" {
		return "profiles.created_at DESC", nil
	}
	direction := "ASC"
	field := param
	if strings.HasPrefix(param, "-") {
		direction = "DESC"
		field = param[1:]
	}
	column, ok := profileOrderings[field]
	if !ok {
		return "", &rules.ValidationError{Field: "ordering", Message: "cannot order by " + field}
	}
	return column + " " + direction + ", profiles.id DESC", nil
}

func (s *ProfileService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("profiles").
		Select(`profiles.*, users.username,
			(SELECT COUNT(*) FROM comments WHERE comments.owner_id = profiles.owner_id) AS comments_count,
			(SELECT COUNT(*) FROM followers WHERE followers.followed_id = profiles.owner_id) AS followers_count,
			(SELECT COUNT(*) FROM followers WHERE followers.owner_id = profiles.owner_id) AS following_count`).
		Joins("JOIN users ON users.id = profiles.owner_id")
}

func (s *ProfileService) List(ctx context.Context, viewer Viewer, ordering string) ([]ProfileView, error) {
	order, err := ParseOrdering(ordering)
	if err != nil {
		return nil, err
	}

	var rows []models.ProfileStats
	if err := s.query(ctx).Order(order).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return s.views(ctx, viewer, rows)
}

func (s *ProfileService) Get(ctx context.Context, viewer Viewer, id int) (*ProfileView, error) {
	var rows []models.ProfileStats
	if err := s.query(ctx).Where("profiles.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &rules.NotFoundError{Resource: "profile", ID: id}
	}

	views, err := s.views(ctx, viewer, rows)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *ProfileService) Update(ctx context.Context, viewer Viewer, id int, update ProfileUpdate) (*ProfileView, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, notFound(err, "profile", id)
	}
	if !viewer.Owns(&profile.OwnerID) {
		return nil, rules.ErrForbidden
	}

	changes := map[string]any{}
	if update.Name != nil {
		changes["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Content != nil {
		changes["content"] = *update.Content
	}
	if update.Image != nil {
		changes["image"] = lo.Ternary(*update.Image == "", models.DefaultAvatarPath, *update.Image)
	}
	if len(changes) > 0 {
		if err := s.db.WithContext(ctx).Model(&profile).Updates(changes).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, viewer, id)
}

func (s *ProfileService) views(ctx context.Context, viewer Viewer, rows []models.ProfileStats) ([]ProfileView, error) {
	following := map[int]int{}
	if viewer.Authenticated() {
		var follows []models.Follower
		ownerIDs := lo.Map(rows, func(r models.ProfileStats, _ int) int { return r.OwnerID })
		err := s.db.WithContext(ctx).
			Where("owner_id = ? AND followed_id IN ?", viewer.UserID, ownerIDs).
			Find(&follows).Error
		if err != nil {
			return nil, err
		}
		following = lo.Associate(follows, func(f models.Follower) (int, int) { return f.FollowedID, f.ID })
	}

	return lo.Map(rows, func(r models.ProfileStats, _ int) ProfileView {
		view := ProfileView{
			ProfileStats: r,
			ImageURL:     imageURL(s.imageBase, r.Image),
			IsOwner:      viewer.Owns(&r.OwnerID),
		}
		if id, ok := following[r.OwnerID]; ok {
			view.FollowingID = &id
		}
		return view
	}), nil
}
