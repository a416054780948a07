package services

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/foraginglink/backend/internal/metrics"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

type FollowerView struct {
	models.Follower
	Owner        string `json:"owner"`
	FollowedName string `json:"followed_name"`
}

type followerRow struct {
	models.Follower
	OwnerUsername    string
	FollowedUsername string
}

func toFollowerView(r followerRow) FollowerView {
	return FollowerView{Follower: r.Follower, Owner: r.OwnerUsername, FollowedName: r.FollowedUsername}
}

type FollowerService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewFollowerService(db *gorm.DB, log *slog.Logger) *FollowerService {
	return &FollowerService{db: db, logger: log.With("component", "followers")}
}

func (s *FollowerService) Create(ctx context.Context, viewer Viewer, req models.CreateFollowerRequest) (*FollowerView, error) {
	if req.FollowedID == viewer.UserID {
		return nil, &rules.ValidationError{Field: "followed", Message: "you cannot follow yourself"}
	}

	follow := &models.Follower{OwnerID: viewer.UserID, FollowedID: req.FollowedID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.User{}, req.FollowedID).Error; err != nil {
			return notFound(err, "user", req.FollowedID)
		}
		if err := tx.Create(follow).Error; err != nil {
			if rules.IsUniqueViolation(err) {
				metrics.RejectedWrites.WithLabelValues("duplicate_follow").Inc()
				return &rules.DuplicateError{Resource: "follower"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, follow.ID)
}

func (s *FollowerService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("followers").
		Select("followers.*, owners.username AS owner_username, followed.username AS followed_username").
		Joins("JOIN users AS owners ON owners.id = followers.owner_id").
		Joins("JOIN users AS followed ON followed.id = followers.followed_id")
}

// FollowerFilter narrows List. OwnerID selects who a user follows, FollowedID who follows them.
type FollowerFilter struct {
	OwnerID    *int
	FollowedID *int
}

func (s *FollowerService) List(ctx context.Context, filter FollowerFilter) ([]FollowerView, error) {
	q := s.query(ctx)
	if filter.OwnerID != nil {
		q = q.Where("followers.owner_id = ?", *filter.OwnerID)
	}
	if filter.FollowedID != nil {
		q = q.Where("followers.followed_id = ?", *filter.FollowedID)
	}

	var rows []followerRow
	if err := q.Order("followers.created_at DESC, followers.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(r followerRow, _ int) FollowerView { return toFollowerView(r) }), nil
}

func (s *FollowerService) Get(ctx context.Context, id int) (*FollowerView, error) {
	var rows []followerRow
	if err := s.query(ctx).Where("followers.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &rules.NotFoundError{Resource: "follower", ID: id}
	}
	view := toFollowerView(rows[0])
	return &view, nil
}

func (s *FollowerService) Delete(ctx context.Context, viewer Viewer, id int) error {
	var follow models.Follower
	if err := s.db.WithContext(ctx).First(&follow, id).Error; err != nil {
		return notFound(err, "follower", id)
	}
	if !viewer.Owns(&follow.OwnerID) {
		return rules.ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&follow).Error
}
