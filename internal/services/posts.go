package services

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/cache"
	"github.com/foraginglink/backend/internal/markdown"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
	"github.com/foraginglink/backend/internal/serialize"
)

const postListKey = "posts"

type PostView struct {
	models.PlantInFocusPost
	Owner                  *string `json:"owner"`
	IsOwner                bool    `json:"is_owner"`
	LikesCount             int     `json:"likes_count"`
	CommentsCount          int     `json:"comments_count"`
	LikeID                 *int    `json:"like_id"`
	HistoryAndFolkloreHTML string  `json:"history_and_folklore_html"`
	CreatedAgo             string  `json:"created_ago"`
	UpdatedAgo             string  `json:"updated_ago"`
}

type PostService struct {
	db     *gorm.DB
	cache  *cache.Cache[[]PostView]
	logger *slog.Logger
}

func NewPostService(db *gorm.DB, c *cache.Cache[[]PostView], log *slog.Logger) *PostService {
	return &PostService{db: db, cache: c, logger: log.With("component", "posts")}
}

type postRow struct {
	models.PlantInFocusPost
	OwnerUsername *string
	LikesCount    int
	CommentsCount int
}

func (s *PostService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("plant_in_focus_posts").
		Select(`plant_in_focus_posts.*, users.username AS owner_username,
			(SELECT COUNT(*) FROM likes WHERE likes.plant_in_focus_post_id = plant_in_focus_posts.id) AS likes_count,
			(SELECT COUNT(*) FROM comments WHERE comments.plant_in_focus_post_id = plant_in_focus_posts.id) AS comments_count`).
		Joins("LEFT JOIN users ON users.id = plant_in_focus_posts.owner_id")
}

func toPostView(r postRow) PostView {
	return PostView{
		PlantInFocusPost:       r.PlantInFocusPost,
		Owner:                  r.OwnerUsername,
		LikesCount:             r.LikesCount,
		CommentsCount:          r.CommentsCount,
		HistoryAndFolkloreHTML: markdown.Render(r.HistoryAndFolklore),
	}
}

// List returns every post, newest first. The viewer-independent part is cached.
func (s *PostService) List(ctx context.Context, viewer Viewer) ([]PostView, error) {
	base, err := s.cache.Remember(postListKey, func() ([]PostView, error) {
		var rows []postRow
		err := s.query(ctx).
			Order("plant_in_focus_posts.created_at DESC, plant_in_focus_posts.id DESC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		return lo.Map(rows, func(r postRow, _ int) PostView { return toPostView(r) }), nil
	})
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(base))
	copy(views, base)
	return s.personalize(ctx, viewer, views)
}

func (s *PostService) Get(ctx context.Context, viewer Viewer, id int) (*PostView, error) {
	var rows []postRow
	if err := s.query(ctx).Where("plant_in_focus_posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &rules.NotFoundError{Resource: "post", ID: id}
	}

	views, err := s.personalize(ctx, viewer, []PostView{toPostView(rows[0])})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *PostService) Create(ctx context.Context, viewer Viewer, req models.PostRequest) (*PostView, error) {
	post := postFromRequest(req)
	post.OwnerID = &viewer.UserID
	if err := rules.NormalizePost(&post); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	s.Invalidate()
	s.logger.Info("post created", "post_id", post.ID, "owner_id", viewer.UserID)

	return s.Get(ctx, viewer, post.ID)
}

func (s *PostService) Update(ctx context.Context, viewer Viewer, id int, req models.PostRequest) (*PostView, error) {
	var existing models.PlantInFocusPost
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, notFound(err, "post", id)
	}

	post := postFromRequest(req)
	post.ID = existing.ID
	post.OwnerID = existing.OwnerID
	post.CreatedAt = existing.CreatedAt
	if err := rules.NormalizePost(&post); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	s.Invalidate()

	return s.Get(ctx, viewer, id)
}

// Delete removes a post together with its comments and likes.
func (s *PostService) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.PlantInFocusPost{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &rules.NotFoundError{Resource: "post", ID: id}
	}
	s.Invalidate()
	s.logger.Info("post deleted", "post_id", id)
	return nil
}

// Invalidate drops the cached post list. Any write that changes a post or its counts calls it.
func (s *PostService) Invalidate() {
	s.cache.Delete(postListKey)
}

func (s *PostService) personalize(ctx context.Context, viewer Viewer, views []PostView) ([]PostView, error) {
	likes := map[int]int{}
	if viewer.Authenticated() && len(views) > 0 {
		var rows []models.Like
		ids := lo.Map(views, func(v PostView, _ int) int { return v.ID })
		err := s.db.WithContext(ctx).
			Where("owner_id = ? AND plant_in_focus_post_id IN ?", viewer.UserID, ids).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		likes = lo.Associate(rows, func(l models.Like) (int, int) { return *l.PlantInFocusPostID, l.ID })
	}

	for i := range views {
		v := &views[i]
		v.IsOwner = viewer.Owns(v.OwnerID)
		v.LikeID = nil
		if id, ok := likes[v.ID]; ok {
			v.LikeID = &id
		}
		v.CreatedAgo = serialize.NaturalTime(v.CreatedAt)
		v.UpdatedAgo = serialize.NaturalTime(v.UpdatedAt)
	}
	return views, nil
}

func postFromRequest(req models.PostRequest) models.PlantInFocusPost {
	return models.PlantInFocusPost{
		MainPlantName:              req.MainPlantName,
		MainPlantMonth:             req.MainPlantMonth,
		MainPlantEnvironment:       req.MainPlantEnvironment,
		CulinaryUses:               req.CulinaryUses,
		MedicinalUses:              req.MedicinalUses,
		HistoryAndFolklore:         req.HistoryAndFolklore,
		MainPlantPartsUsed:         req.MainPlantPartsUsed,
		MainPlantWarnings:          req.MainPlantWarnings,
		MainPlantImage:             req.MainPlantImage,
		ConfusablePlantName:        req.ConfusablePlantName,
		ConfusablePlantInformation: req.ConfusablePlantInformation,
		ConfusablePlantWarnings:    req.ConfusablePlantWarnings,
		ConfusablePlantImage:       req.ConfusablePlantImage,
	}
}
