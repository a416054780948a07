package services

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/cache"
	"github.com/foraginglink/backend/internal/metrics"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

type LikeFilter struct {
	OwnerID   *int
	PostID    *int
	CommentID *int
}

type LikeView struct {
	models.Like
	Owner string `json:"owner"`
}

type likeRow struct {
	models.Like
	OwnerUsername string
}

func toLikeView(r likeRow) LikeView {
	return LikeView{Like: r.Like, Owner: r.OwnerUsername}
}

type LikeService struct {
	db     *gorm.DB
	posts  *cache.Cache[[]PostView]
	logger *slog.Logger
}

func NewLikeService(db *gorm.DB, posts *cache.Cache[[]PostView], log *slog.Logger) *LikeService {
	return &LikeService{db: db, posts: posts, logger: log.With("component", "likes")}
}

// Create likes exactly one post or comment. Liking the same thing twice is a DuplicateError.
func (s *LikeService) Create(ctx context.Context, viewer Viewer, req models.CreateLikeRequest) (*LikeView, error) {
	if (req.PlantInFocusPostID == nil) == (req.CommentID == nil) {
		return nil, &rules.ValidationError{Field: "non_field_errors", Message: "like either a post or a comment"}
	}

	like := &models.Like{
		OwnerID:            viewer.UserID,
		PlantInFocusPostID: req.PlantInFocusPostID,
		CommentID:          req.CommentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if like.PlantInFocusPostID != nil {
			if err := tx.Select("id").First(&models.PlantInFocusPost{}, *like.PlantInFocusPostID).Error; err != nil {
				return notFound(err, "post", *like.PlantInFocusPostID)
			}
		} else {
			if err := tx.Select("id").First(&models.Comment{}, *like.CommentID).Error; err != nil {
				return notFound(err, "comment", *like.CommentID)
			}
		}

		if err := tx.Create(like).Error; err != nil {
			if rules.IsUniqueViolation(err) {
				metrics.RejectedWrites.WithLabelValues("duplicate_like").Inc()
				return &rules.DuplicateError{Resource: "like"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.posts.Delete(postListKey)
	return s.Get(ctx, like.ID)
}

func (s *LikeService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("likes").
		Select("likes.*, users.username AS owner_username").
		Joins("JOIN users ON users.id = likes.owner_id")
}

func (s *LikeService) List(ctx context.Context, filter LikeFilter) ([]LikeView, error) {
	q := s.query(ctx)
	if filter.OwnerID != nil {
		q = q.Where("likes.owner_id = ?", *filter.OwnerID)
	}
	if filter.PostID != nil {
		q = q.Where("likes.plant_in_focus_post_id = ?", *filter.PostID)
	}
	if filter.CommentID != nil {
		q = q.Where("likes.comment_id = ?", *filter.CommentID)
	}

	var rows []likeRow
	if err := q.Order("likes.created_at DESC, likes.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r likeRow, _ int) LikeView { return toLikeView(r) }), nil
}

func (s *LikeService) Get(ctx context.Context, id int) (*LikeView, error) {
	var rows []likeRow
	if err := s.query(ctx).Where("likes.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &rules.NotFoundError{Resource: "like", ID: id}
	}
	view := toLikeView(rows[0])
	return &view, nil
}

func (s *LikeService) Delete(ctx context.Context, viewer Viewer, id int) error {
	var like models.Like
	if err := s.db.WithContext(ctx).First(&like, id).Error; err != nil {
		return notFound(err, "like", id)
	}
	if !viewer.Owns(&like.OwnerID) {
		return rules.ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(&like).Error; err != nil {
		return err
	}
	s.posts.Delete(postListKey)
	return nil
}
