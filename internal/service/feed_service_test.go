package service

import (
	"context"
	"testing"
	"time"

	"circles/internal/cache"
	"circles/internal/models"
	"circles/internal/repository"
	"circles/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func TestFeedBlockIsOneDirectional(t *testing.T) {
	mr := useMiniredis(t)
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	rels := repository.NewRelationshipRepository(db)
	posts := repository.NewPostRepository(db)
	blocks := NewBlockService(users, rels)
	feed := NewFeedService(users, posts, rels, time.Minute)

	u1 := testutil.CreateUser(t, db, "u1")
	u2 := testutil.CreateUser(t, db, "u2")
	p1 := testutil.CreatePost(t, db, u1.ID, "by u1")
	p2 := testutil.CreatePost(t, db, u2.ID, "by u2")

	before, err := feed.ListFeed(ctx, u2.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, before, 2)
	assert.True(t, mr.Exists(cache.BlockersKey(u2.ID)))

	_, err = blocks.BlockUser(ctx, u1.ID, u2.Email)
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.BlockersKey(u2.ID)), "block must invalidate the blocked user's blockers cache")

	u2Feed, err := feed.ListFeed(ctx, u2.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, u2Feed, 1, "the blocker's posts leave the blocked user's feed")
	assert.Equal(t, p2.ID, u2Feed[0].ID)

	u1Feed, err := feed.ListFeed(ctx, u1.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, u1Feed, 2, "blocking does not filter the blocker's own feed")
	ids := []string{u1Feed[0].ID, u1Feed[1].ID}
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, ids)
}

func TestFeedExcludesPostsOfUsersWhoBlockedViewer(t *testing.T) {
	useMiniredis(t)
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	rels := repository.NewRelationshipRepository(db)
	blocks := NewBlockService(users, rels)
	feed := NewFeedService(users, repository.NewPostRepository(db), rels, time.Minute)

	viewer := testutil.CreateUser(t, db, "viewer")
	blocker := testutil.CreateUser(t, db, "blocker")
	other := testutil.CreateUser(t, db, "other")
	testutil.CreatePost(t, db, blocker.ID, "hidden from viewer")
	visible := testutil.CreatePost(t, db, other.ID, "visible")

	_, err := feed.ListFeed(ctx, viewer.ID, 20, 0)
	require.NoError(t, err)

	_, err = blocks.BlockUser(ctx, blocker.ID, viewer.Email)
	require.NoError(t, err)

	got, err := feed.ListFeed(ctx, viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, visible.ID, got[0].ID)

	_, err = blocks.UnblockUser(ctx, blocker.ID, viewer.Email)
	require.NoError(t, err)

	got, err = feed.ListFeed(ctx, viewer.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFeedFallsBackWhenRedisIsDown(t *testing.T) {
	mr := useMiniredis(t)
	mr.Close()

	db := testutil.NewTestDB(t)
	testutil.CreatePost(t, db, "someone", "p")
	feed := NewFeedService(repository.NewUserRepository(db), repository.NewPostRepository(db), repository.NewRelationshipRepository(db), 0)

	got, err := feed.ListFeed(context.Background(), "viewer", 20, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListUserPosts(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	rels := repository.NewRelationshipRepository(db)
	feed := NewFeedService(users, repository.NewPostRepository(db), rels, time.Minute)

	owner := testutil.CreateUser(t, db, "owner")
	viewer := testutil.CreateUser(t, db, "viewer")
	kept := testutil.CreatePost(t, db, owner.ID, "kept")
	hidden := testutil.CreatePost(t, db, owner.ID, "hidden")
	testutil.CreatePost(t, db, viewer.ID, "not the owner's")

	_, err := repository.NewVisibilityRepository(db).Hide(ctx, viewer.ID, hidden.ID)
	require.NoError(t, err)

	got, err := feed.ListUserPosts(ctx, viewer.ID, owner.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, kept.ID, got[0].ID)

	_, err = feed.ListUserPosts(ctx, viewer.ID, "6f1c2b9e-0d55-4c3e-9a57-3f4f7c1a2b3c", 20, 0)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	t.Run("private account", func(t *testing.T) {
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", owner.ID).Update("is_private", true).Error)
		t.Cleanup(func() {
			db.Model(&models.User{}).Where("id = ?", owner.ID).Update("is_private", false)
		})

		_, err := feed.ListUserPosts(ctx, viewer.ID, owner.ID, 20, 0)
		assert.True(t, models.IsCode(err, models.CodeAccountPrivate))
		assert.Equal(t, 400, models.StatusFor(err))

		own, err := feed.ListUserPosts(ctx, owner.ID, owner.ID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, own, 2)
	})

	t.Run("owner blocked the viewer", func(t *testing.T) {
		_, err := rels.AddPeer(ctx, owner.ID, models.RelationshipBlocked, viewer.ID)
		require.NoError(t, err)

		_, err = feed.ListUserPosts(ctx, viewer.ID, owner.ID, 20, 0)
		assert.True(t, models.IsCode(err, models.CodeNotFound))

		// The block is one-directional.
		mine, err := feed.ListUserPosts(ctx, owner.ID, viewer.ID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})
}

func TestListMyPostsIncludesHiddenAndSkipsDeleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	feed := NewFeedService(repository.NewUserRepository(db), repository.NewPostRepository(db),
		repository.NewRelationshipRepository(db), time.Minute)

	owner := testutil.CreateUser(t, db, "owner")
	first := testutil.CreatePost(t, db, owner.ID, "first")
	second := testutil.CreatePost(t, db, owner.ID, "second")
	gone := testutil.CreatePost(t, db, owner.ID, "gone")
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", gone.ID).Update("is_deleted", true).Error)
	testutil.CreatePost(t, db, "someone-else", "other")

	_, err := repository.NewVisibilityRepository(db).Hide(ctx, owner.ID, first.ID)
	require.NoError(t, err)

	got, err := feed.ListMyPosts(ctx, owner.ID, 0, -5)
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	page, err := feed.ListMyPosts(ctx, owner.ID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
