package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foraginglink/backend/internal/cache"
	"github.com/foraginglink/backend/internal/markdown"
	"github.com/foraginglink/backend/internal/metrics"
	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
	"github.com/foraginglink/backend/internal/serialize"
)

type CommentFilter struct {
	PostID            *int
	ReplyingCommentID *int
	OwnerID           *int
	OwnerUsername     string
	Search            string
}

type CommentView struct {
	models.Comment
	Owner        *string `json:"owner"`
	IsOwner      bool    `json:"is_owner"`
	ProfileID    *int    `json:"profile_id"`
	ProfileImage string  `json:"profile_image"`
	Replies      []int   `json:"replies"`
	RepliesCount int     `json:"replies_count"`
	LikesCount   int     `json:"likes_count"`
	LikeID       *int    `json:"like_id"`
	ContentHTML  string  `json:"content_html"`
	CreatedAgo   string  `json:"created_ago"`
	UpdatedAgo   string  `json:"updated_ago"`
}

type CommentService struct {
	db        *gorm.DB
	imageBase string
	posts     *cache.Cache[[]PostView]
	logger    *slog.Logger
}

func NewCommentService(db *gorm.DB, imageBase string, posts *cache.Cache[[]PostView], log *slog.Logger) *CommentService {
	return &CommentService{db: db, imageBase: imageBase, posts: posts, logger: log.With("component", "comments")}
}

// commentLookup reads comments on tx, holding a share lock so the parent
// cannot be deleted before the reply is inserted.
func commentLookup(tx *gorm.DB) rules.CommentLookup {
	return rules.CommentLookupFunc(func(ctx context.Context, id int) (*models.Comment, error) {
		var c models.Comment
		err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}).First(&c, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &c, nil
	})
}

// Create validates and inserts a comment in one transaction. A reply always
// belongs to its parent's post, whatever post the request names.
func (s *CommentService) Create(ctx context.Context, viewer Viewer, req models.CommentRequest) (*CommentView, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, &rules.ValidationError{Field: "content", Message: "this field may not be blank"}
	}

	ownerID := viewer.UserID
	candidate := &models.Comment{
		OwnerID:            &ownerID,
		PlantInFocusPostID: req.PlantInFocusPostID,
		ReplyingCommentID:  req.ReplyingCommentID,
		Content:            req.Content,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := rules.ValidateNewComment(ctx, candidate, commentLookup(tx))
		if err != nil {
			return err
		}
		if parent != nil {
			candidate.PlantInFocusPostID = parent.PlantInFocusPostID
		}

		var post models.PlantInFocusPost
		if err := tx.Select("id").First(&post, candidate.PlantInFocusPostID).Error; err != nil {
			return notFound(err, "post", candidate.PlantInFocusPostID)
		}

		return tx.Create(candidate).Error
	})
	if err != nil {
		var nested *rules.NestingTooDeepError
		if errors.As(err, &nested) {
			metrics.RejectedWrites.WithLabelValues("comment_depth").Inc()
		}
		return nil, err
	}

	s.posts.Delete(postListKey)
	s.logger.Info("comment created", "comment_id", candidate.ID, "reply", candidate.IsReply())

	return s.Get(ctx, viewer, candidate.ID)
}

func (s *CommentService) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("comments").
		Select(`comments.*, users.username AS owner_username, profiles.id AS profile_id, profiles.image AS profile_image,
			(SELECT COUNT(*) FROM likes WHERE likes.comment_id = comments.id) AS likes_count,
			(SELECT COUNT(*) FROM comments AS replies WHERE replies.replying_comment_id = comments.id) AS replies_count`).
		Joins("LEFT JOIN users ON users.id = comments.owner_id").
		Joins("LEFT JOIN profiles ON profiles.owner_id = comments.owner_id")
}

type commentRow struct {
	models.Comment
	OwnerUsername *string
	ProfileID     *int
	ProfileImage  *string
	LikesCount    int
	RepliesCount  int
}

// List returns comments newest first.
func (s *CommentService) List(ctx context.Context, viewer Viewer, filter CommentFilter) ([]CommentView, error) {
	q := s.query(ctx)
	if filter.PostID != nil {
		q = q.Where("comments.plant_in_focus_post_id = ?", *filter.PostID)
	}
	if filter.ReplyingCommentID != nil {
		q = q.Where("comments.replying_comment_id = ?", *filter.ReplyingCommentID)
	}
	if filter.OwnerID != nil {
		q = q.Where("comments.owner_id = ?", *filter.OwnerID)
	}
	if filter.OwnerUsername != "" {
		q = q.Where("users.username = ?", filter.OwnerUsername)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		q = q.Joins("JOIN plant_in_focus_posts ON plant_in_focus_posts.id = comments.plant_in_focus_post_id").
			Where("(comments.content ILIKE ? OR users.username ILIKE ? OR plant_in_focus_posts.main_plant_name ILIKE ?)",
				like, like, like)
	}

	var rows []commentRow
	if err := q.Order("comments.created_at DESC, comments.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return s.views(ctx, viewer, rows)
}

func (s *CommentService) Get(ctx context.Context, viewer Viewer, id int) (*CommentView, error) {
	var rows []commentRow
	if err := s.query(ctx).Where("comments.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &rules.NotFoundError{Resource: "comment", ID: id}
	}

	views, err := s.views(ctx, viewer, rows)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update changes the content of a comment. The post and parent links never
// change: a request naming a different post or parent is rejected.
func (s *CommentService) Update(ctx context.Context, viewer Viewer, id int, req models.CommentRequest) (*CommentView, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, &rules.ValidationError{Field: "content", Message: "this field may not be blank"}
	}

	comment, err := s.owned(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if req.PlantInFocusPostID != 0 && req.PlantInFocusPostID != comment.PlantInFocusPostID {
		return nil, &rules.ValidationError{Field: "plant_in_focus_post", Message: "a comment cannot be moved to another post"}
	}
	if req.ReplyingCommentID != nil && lo.FromPtr(comment.ReplyingCommentID) != *req.ReplyingCommentID {
		return nil, &rules.ValidationError{Field: "replying_comment", Message: "a comment cannot be moved to another thread"}
	}
	if err := s.db.WithContext(ctx).Model(comment).Update("content", req.Content).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, viewer, id)
}

// Delete removes a comment and, through the foreign key, its replies.
func (s *CommentService) Delete(ctx context.Context, viewer Viewer, id int) error {
	comment, err := s.owned(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(comment).Error; err != nil {
		return err
	}
	s.posts.Delete(postListKey)
	return nil
}

// Replies lists the replies to a top-level comment.
func (s *CommentService) Replies(ctx context.Context, viewer Viewer, commentID int) ([]CommentView, error) {
	var parent models.Comment
	if err := s.db.WithContext(ctx).Select("id").First(&parent, commentID).Error; err != nil {
		return nil, notFound(err, "comment", commentID)
	}
	return s.List(ctx, viewer, CommentFilter{ReplyingCommentID: &commentID})
}

// Reply returns a single reply, provided it belongs to commentID.
func (s *CommentService) Reply(ctx context.Context, viewer Viewer, commentID, replyID int) (*CommentView, error) {
	reply, err := s.Get(ctx, viewer, replyID)
	if err != nil {
		return nil, err
	}
	if reply.ReplyingCommentID == nil || *reply.ReplyingCommentID != commentID {
		return nil, &rules.NotFoundError{Resource: "reply", ID: replyID}
	}
	return reply, nil
}

func (s *CommentService) ByProfile(ctx context.Context, viewer Viewer, profileID int) ([]CommentView, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, profileID).Error; err != nil {
		return nil, notFound(err, "profile", profileID)
	}
	return s.List(ctx, viewer, CommentFilter{OwnerID: &profile.OwnerID})
}

func (s *CommentService) owned(ctx context.Context, viewer Viewer, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFound(err, "comment", id)
	}
	if !viewer.Owns(comment.OwnerID) {
		return nil, rules.ErrForbidden
	}
	return &comment, nil
}

func (s *CommentService) views(ctx context.Context, viewer Viewer, rows []commentRow) ([]CommentView, error) {
	ids := lo.Map(rows, func(r commentRow, _ int) int { return r.ID })

	replies := map[int][]int{}
	if len(ids) > 0 {
		var children []models.Comment
		err := s.db.WithContext(ctx).
			Select("id", "replying_comment_id").
			Where("replying_comment_id IN ?", ids).
			Order("created_at ASC, id ASC").
			Find(&children).Error
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			replies[*child.ReplyingCommentID] = append(replies[*child.ReplyingCommentID], child.ID)
		}
	}

	likes := map[int]int{}
	if viewer.Authenticated() && len(ids) > 0 {
		var liked []models.Like
		err := s.db.WithContext(ctx).
			Where("owner_id = ? AND comment_id IN ?", viewer.UserID, ids).
			Find(&liked).Error
		if err != nil {
			return nil, err
		}
		likes = lo.Associate(liked, func(l models.Like) (int, int) { return *l.CommentID, l.ID })
	}

	return lo.Map(rows, func(r commentRow, _ int) CommentView {
		view := CommentView{
			Comment:      r.Comment,
			Owner:        r.OwnerUsername,
			IsOwner:      viewer.Owns(r.OwnerID),
			ProfileID:    r.ProfileID,
			Replies:      lo.Ternary(replies[r.ID] == nil, []int{}, replies[r.ID]),
			RepliesCount: r.RepliesCount,
			LikesCount:   r.LikesCount,
			ContentHTML:  markdown.Render(r.Content),
			CreatedAgo:   serialize.NaturalTime(r.CreatedAt),
			UpdatedAgo:   serialize.NaturalTime(r.UpdatedAt),
		}
		if r.ProfileImage != nil {
			view.ProfileImage = imageURL(s.imageBase, *r.ProfileImage)
		}
		if id, ok := likes[r.ID]; ok {
			view.LikeID = &id
		}
		return view
	}), nil
}
