package rules

import (
	"context"

	"github.com/foraginglink/backend/internal/models"
)

// CommentLookup fetches a persisted comment. A missing comment is reported as (nil, nil).
type CommentLookup interface {
	FindComment(ctx context.Context, id int) (*models.Comment, error)
}

type CommentLookupFunc func(ctx context.Context, id int) (*models.Comment, error)

func (f CommentLookupFunc) FindComment(ctx context.Context, id int) (*models.Comment, error) {
	return f(ctx, id)
}

// ValidateNewComment checks that a candidate comment keeps the tree at most two levels deep.
// It returns the resolved parent, or nil for a root comment. Nothing is written.
func ValidateNewComment(ctx context.Context, candidate *models.Comment, lookup CommentLookup) (*models.Comment, error) {
	if candidate.ReplyingCommentID == nil {
		return nil, nil
	}

	parentID := *candidate.ReplyingCommentID
	parent, err := lookup.FindComment(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, &NotFoundError{Resource: "comment", ID: parentID}
	}
	if parent.IsReply() {
		return nil, &NestingTooDeepError{ParentID: parentID}
	}

	return parent, nil
}
