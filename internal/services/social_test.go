package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/foraginglink/backend/internal/models"
	"github.com/foraginglink/backend/internal/rules"
)

func TestLikes(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	admin := f.staff(t, "admin")
	user := f.user(t, "rowan")
	post := f.post(t, admin, "Nettle")

	like, err := f.svcs.Likes.Create(ctx, user, models.CreateLikeRequest{PlantInFocusPostID: &post.ID})
	require.NoError(t, err)
	require.Equal(t, "rowan", like.Owner)

	_, err = f.svcs.Likes.Create(ctx, user, models.CreateLikeRequest{PlantInFocusPostID: &post.ID})
	var dup *rules.DuplicateError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "possible duplicate", err.Error())

	var invalid *rules.ValidationError
	_, err = f.svcs.Likes.Create(ctx, user, models.CreateLikeRequest{})
	require.ErrorAs(t, err, &invalid)

	view, err := f.svcs.Posts.Get(ctx, user, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, view.LikesCount)
	require.Equal(t, like.ID, *view.LikeID)

	listed, err := f.svcs.Likes.List(ctx, LikeFilter{PostID: &post.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.ErrorIs(t, f.svcs.Likes.Delete(ctx, admin, like.ID), rules.ErrForbidden)
	require.NoError(t, f.svcs.Likes.Delete(ctx, user, like.ID))

	view, err = f.svcs.Posts.Get(ctx, user, post.ID)
	require.NoError(t, err)
	require.Zero(t, view.LikesCount)
	require.Nil(t, view.LikeID)
}

func TestPostListCacheIsInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	admin := f.staff(t, "admin")
	post := f.post(t, admin, "Nettle")

	posts, err := f.svcs.Posts.List(ctx, Viewer{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Zero(t, posts[0].CommentsCount)
	require.Contains(t, posts[0].HistoryAndFolkloreHTML, "<em>spring</em>")

	_, err = f.svcs.Comments.Create(ctx, admin, models.CommentRequest{PlantInFocusPostID: post.ID, Content: "hi"})
	require.NoError(t, err)

	posts, err = f.svcs.Posts.List(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, 1, posts[0].CommentsCount)
	require.True(t, posts[0].IsOwner)
}

func TestPostValidation(t *testing.T) {
	f := newFixture(t)
	admin := f.staff(t, "admin")

	var invalid *rules.ValidationError
	_, err := f.svcs.Posts.Create(t.Context(), admin, models.PostRequest{MainPlantName: "Nettle", MainPlantMonth: 13})
	require.ErrorAs(t, err, &invalid)
	require.Zero(t, f.count(t, &models.PlantInFocusPost{}))
}

func TestFollowers(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	rowan := f.user(t, "rowan")
	hazel := f.user(t, "hazel")

	var invalid *rules.ValidationError
	_, err := f.svcs.Followers.Create(ctx, rowan, models.CreateFollowerRequest{FollowedID: rowan.UserID})
	require.ErrorAs(t, err, &invalid)

	follow, err := f.svcs.Followers.Create(ctx, rowan, models.CreateFollowerRequest{FollowedID: hazel.UserID})
	require.NoError(t, err)
	require.Equal(t, "rowan", follow.Owner)
	require.Equal(t, "hazel", follow.FollowedName)

	_, err = f.svcs.Followers.Create(ctx, rowan, models.CreateFollowerRequest{FollowedID: hazel.UserID})
	var dup *rules.DuplicateError
	require.ErrorAs(t, err, &dup)

	var notFound *rules.NotFoundError
	_, err = f.svcs.Followers.Create(ctx, rowan, models.CreateFollowerRequest{FollowedID: 9999})
	require.ErrorAs(t, err, &notFound)

	profiles, err := f.svcs.Profiles.List(ctx, rowan, "-followers_count")
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	require.Equal(t, "hazel", profiles[0].Username)
	require.Equal(t, 1, profiles[0].FollowersCount)
	require.Equal(t, follow.ID, *profiles[0].FollowingID)
	require.Equal(t, "rowan", profiles[1].Username)
	require.Equal(t, 1, profiles[1].FollowingCount)
	require.True(t, profiles[1].IsOwner)

	following, err := f.svcs.Followers.List(ctx, FollowerFilter{OwnerID: &rowan.UserID})
	require.NoError(t, err)
	require.Len(t, following, 1)
	followersOfRowan, err := f.svcs.Followers.List(ctx, FollowerFilter{FollowedID: &rowan.UserID})
	require.NoError(t, err)
	require.Empty(t, followersOfRowan)

	require.ErrorIs(t, f.svcs.Followers.Delete(ctx, hazel, follow.ID), rules.ErrForbidden)
	require.NoError(t, f.svcs.Followers.Delete(ctx, rowan, follow.ID))
}

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	rowan := f.user(t, "rowan")
	hazel := f.user(t, "hazel")

	current, err := f.svcs.Auth.CurrentUser(ctx, rowan.UserID)
	require.NoError(t, err)

	name := "Rowan Ash"
	_, err = f.svcs.Profiles.Update(ctx, hazel, current.ProfileID, ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, rules.ErrForbidden)

	view, err := f.svcs.Profiles.Update(ctx, rowan, current.ProfileID, ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, view.Name)
	require.Equal(t, "https://images.example.com/"+models.DefaultAvatarPath, view.ImageURL)

	_, err = f.svcs.Profiles.List(ctx, Viewer{}, "-shoe_size")
	var invalid *rules.ValidationError
	require.ErrorAs(t, err, &invalid)
}
