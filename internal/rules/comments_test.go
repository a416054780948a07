package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foraginglink/backend/internal/models"
)

type memComments map[int]*models.Comment

func (m memComments) FindComment(_ context.Context, id int) (*models.Comment, error) {
	return m[id], nil
}

func intPtr(v int) *int { return &v }

func TestValidateNewComment(t *testing.T) {
	store := memComments{
		1: {ID: 1, PlantInFocusPostID: 7},
		2: {ID: 2, PlantInFocusPostID: 7, ReplyingCommentID: intPtr(1)},
	}
	ctx := context.Background()

	t.Run("root comment", func(t *testing.T) {
		parent, err := ValidateNewComment(ctx, &models.Comment{PlantInFocusPostID: 7}, store)
		require.NoError(t, err)
		require.Nil(t, parent)
	})

	t.Run("reply to root", func(t *testing.T) {
		parent, err := ValidateNewComment(ctx, &models.Comment{ReplyingCommentID: intPtr(1)}, store)
		require.NoError(t, err)
		require.Equal(t, 1, parent.ID)
	})

	t.Run("reply to reply", func(t *testing.T) {
		_, err := ValidateNewComment(ctx, &models.Comment{ReplyingCommentID: intPtr(2)}, store)
		var nested *NestingTooDeepError
		require.ErrorAs(t, err, &nested)
		require.Equal(t, 2, nested.ParentID)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := ValidateNewComment(ctx, &models.Comment{ReplyingCommentID: intPtr(99)}, store)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, 99, notFound.ID)
	})

	t.Run("lookup failure", func(t *testing.T) {
		boom := errors.New("boom")
		lookup := CommentLookupFunc(func(context.Context, int) (*models.Comment, error) { return nil, boom })
		_, err := ValidateNewComment(ctx, &models.Comment{ReplyingCommentID: intPtr(1)}, lookup)
		require.ErrorIs(t, err, boom)
	})
}
