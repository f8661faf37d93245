package service

import (
	"context"
	"testing"
	"time"

	"circles/internal/models"
	"circles/internal/repository"
	"circles/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentService(t *testing.T) (*ContentService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewContentService(
		repository.NewUserRepository(db),
		repository.NewPostRepository(db),
		repository.NewCommentRepository(db),
		repository.NewReactRepository(db),
		repository.NewVisibilityRepository(db),
		fixedClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	)
	return svc, db
}

func TestContentServiceCreatePost(t *testing.T) {
	svc, _ := newContentService(t)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "u", CreatePostInput{Title: "   "})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	post, err := svc.CreatePost(ctx, "u", CreatePostInput{
		Title:  " hello ",
		Images: []models.Image{{ID: "img1", URL: "https://cdn.example.com/1.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Title)
	assert.True(t, post.AllowComments)
	assert.NotEmpty(t, post.ID)

	closed := false
	post, err = svc.CreatePost(ctx, "u", CreatePostInput{Title: "quiet", AllowComments: &closed})
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, "v", CreateCommentInput{Target: models.PostTarget(post.ID), Content: "hi"})
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestContentServiceCommentsAndReplies(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	post := testutil.CreatePost(t, db, "owner", "p")

	_, err := svc.AddComment(ctx, "v", CreateCommentInput{Target: models.PostTarget("missing"), Content: "hi"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	_, err = svc.AddComment(ctx, "v", CreateCommentInput{Target: models.Target{Kind: "photo", ID: post.ID}, Content: "hi"})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	comment, err := svc.AddComment(ctx, "v", CreateCommentInput{Target: models.PostTarget(post.ID), Content: "first"})
	require.NoError(t, err)
	reply, err := svc.AddComment(ctx, "w", CreateCommentInput{Target: models.CommentTarget(comment.ID), Content: "reply"})
	require.NoError(t, err)
	assert.Equal(t, models.TargetComment, reply.Target.Kind)

	comments, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
}

func TestContentServiceReacts(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	post := testutil.CreatePost(t, db, "owner", "p")

	_, err := svc.AddReact(ctx, "v", models.PostTarget(post.ID), "meh")
	assert.True(t, models.IsCode(err, models.CodeValidation))

	react, err := svc.AddReact(ctx, "v", models.PostTarget(post.ID), "")
	require.NoError(t, err)
	assert.Equal(t, models.ReactLike, react.Type)

	loud, err := svc.AddReact(ctx, "v", models.PostTarget(post.ID), "WOW")
	require.NoError(t, err)
	assert.Equal(t, models.ReactWow, loud.Type)

	_, err = svc.DeleteReact(ctx, "intruder", react.ID)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.DeleteReact(ctx, "v", react.ID)
	require.NoError(t, err)

	var stored models.React
	require.NoError(t, db.First(&stored, "id = ?", react.ID).Error)
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.DeletedAt)
	assert.True(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).Equal(*stored.DeletedAt))

	_, err = svc.DeleteReact(ctx, "v", react.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestContentServiceDeletePost(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	post := testutil.CreatePost(t, db, "owner", "p")
	testutil.CreateComment(t, db, "v", models.PostTarget(post.ID), "c")

	_, err := svc.DeletePost(ctx, "intruder", post.ID)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.DeletePost(ctx, "owner", post.ID)
	require.NoError(t, err)

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, comments)

	_, err = svc.DeletePost(ctx, "owner", post.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestContentServiceUpdatePost(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	friend := testutil.CreateUser(t, db, "friend")
	post := testutil.CreatePost(t, db, owner.ID, "before")

	title := "after"
	_, err := svc.UpdatePost(ctx, friend.ID, post.ID, UpdatePostInput{Title: &title})
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	blank := "  "
	_, err = svc.UpdatePost(ctx, owner.ID, post.ID, UpdatePostInput{Title: &blank})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	unknown := []string{"6f1c2b9e-0d55-4c3e-9a57-3f4f7c1a2b3c"}
	_, err = svc.UpdatePost(ctx, owner.ID, post.ID, UpdatePostInput{Tags: &unknown})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	tags := []string{friend.ID, friend.ID}
	closed := false
	updated, err := svc.UpdatePost(ctx, owner.ID, post.ID, UpdatePostInput{
		Title:         &title,
		AllowComments: &closed,
		Tags:          &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, []string{friend.ID}, updated.Tags)

	var stored models.Post
	require.NoError(t, db.First(&stored, "id = ?", post.ID).Error)
	assert.Equal(t, "after", stored.Title)
	assert.False(t, stored.AllowComments)
	assert.Equal(t, []string{friend.ID}, stored.Tags)

	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Update("is_deleted", true).Error)
	_, err = svc.UpdatePost(ctx, owner.ID, post.ID, UpdatePostInput{Title: &title})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestContentServiceUpdateComment(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")
	other := testutil.CreateUser(t, db, "other")
	post := testutil.CreatePost(t, db, other.ID, "p")

	comment, err := svc.AddComment(ctx, author.ID, CreateCommentInput{
		Target:  models.PostTarget(post.ID),
		Content: "first",
		Tags:    []string{other.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{other.ID}, comment.Tags)

	edited := " edited "
	_, err = svc.UpdateComment(ctx, other.ID, comment.ID, UpdateCommentInput{Content: &edited})
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	empty := ""
	_, err = svc.UpdateComment(ctx, author.ID, comment.ID, UpdateCommentInput{Content: &empty})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	none := []string{}
	updated, err := svc.UpdateComment(ctx, author.ID, comment.ID, UpdateCommentInput{Content: &edited, Tags: &none})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	var stored models.Comment
	require.NoError(t, db.First(&stored, "id = ?", comment.ID).Error)
	assert.Equal(t, "edited", stored.Content)
	assert.Empty(t, stored.Tags)

	_, err = svc.UpdateComment(ctx, author.ID, "missing", UpdateCommentInput{Content: &edited})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestContentServiceRejectsUnknownTags(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner")

	_, err := svc.CreatePost(ctx, owner.ID, CreatePostInput{Title: "t", Tags: []string{"not-a-user"}})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = svc.CreatePost(ctx, owner.ID, CreatePostInput{Title: "t", Tags: []string{"6f1c2b9e-0d55-4c3e-9a57-3f4f7c1a2b3c"}})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	post, err := svc.CreatePost(ctx, owner.ID, CreatePostInput{Title: "t", Tags: []string{owner.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{owner.ID}, post.Tags)
}

func TestEngagementOnHiddenPostStaysHiddenUntilUnhide(t *testing.T) {
	svc, db := newContentService(t)
	ctx := context.Background()
	posts := repository.NewPostRepository(db)
	visibility := NewVisibilityService(posts, repository.NewVisibilityRepository(db),
		repository.NewEngagementRepository(db), fastCascade(), UTCNow)

	owner := testutil.CreateUser(t, db, "owner")
	hider := testutil.CreateUser(t, db, "hider")
	post := testutil.CreatePost(t, db, owner.ID, "p")

	_, err := visibility.HidePost(ctx, hider.ID, post.ID)
	require.NoError(t, err)

	comment, err := svc.AddComment(ctx, hider.ID, CreateCommentInput{Target: models.PostTarget(post.ID), Content: "while hidden"})
	require.NoError(t, err)
	assert.True(t, comment.IsDeleted)
	react, err := svc.AddReact(ctx, hider.ID, models.PostTarget(post.ID), "love")
	require.NoError(t, err)
	assert.True(t, react.IsDeleted)

	var storedComment models.Comment
	require.NoError(t, db.First(&storedComment, "id = ?", comment.ID).Error)
	assert.True(t, storedComment.IsDeleted)
	assert.True(t, storedComment.CascadeHidden)
	require.NotNil(t, storedComment.DeletedAt)

	live, err := svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, live, "a hidden post's engagement is not listed")

	// Other users are unaffected by hider's choice.
	visible, err := svc.AddComment(ctx, owner.ID, CreateCommentInput{Target: models.PostTarget(post.ID), Content: "owner"})
	require.NoError(t, err)
	assert.False(t, visible.IsDeleted)

	_, err = visibility.UnhidePost(ctx, hider.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, db.First(&storedComment, "id = ?", comment.ID).Error)
	assert.False(t, storedComment.IsDeleted)
	assert.False(t, storedComment.CascadeHidden)
	assert.Nil(t, storedComment.DeletedAt)

	var storedReact models.React
	require.NoError(t, db.First(&storedReact, "id = ?", react.ID).Error)
	assert.False(t, storedReact.IsDeleted)
	assert.Nil(t, storedReact.DeletedAt)

	live, err = svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, live, 2)
}
