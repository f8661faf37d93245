package seed

import (
	"testing"

	"circles/internal/models"
	"circles/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryRunPopulatesDatabase(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := NewFactory(db, Options{
		NumUsers:        6,
		NumPosts:        10,
		CommentsPerPost: 2,
		ReactsPerPost:   3,
		FriendRatio:     1,
		RandSeed:        42,
	})

	summary, err := f.Run()
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Users)
	assert.Equal(t, 10, summary.Posts)
	assert.Equal(t, 30, summary.Reacts)
	assert.Equal(t, 15, summary.Friendships)
	assert.Zero(t, summary.Pending)

	var users, posts, members int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.RelationshipMember{}).Count(&members).Error)
	assert.Equal(t, int64(6), users)
	assert.Equal(t, int64(10), posts)
	assert.Equal(t, int64(30), members, "each friendship is stored on both sides")

	require.NoError(t, f.ClearAll())
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.RelationshipMember{}).Count(&members).Error)
	assert.Zero(t, users)
	assert.Zero(t, members)
}

func TestFactoryPendingRequests(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := NewFactory(db, Options{NumUsers: 4, PendingRatio: 1, RandSeed: 7})

	summary, err := f.Run()
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Pending)
	assert.Zero(t, summary.Friendships)

	var pending int64
	require.NoError(t, db.Model(&models.RequestPending{}).Count(&pending).Error)
	assert.Equal(t, int64(6), pending)
}

func TestFactoryDryRunWritesNothing(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := NewFactory(db, Options{NumUsers: 3, NumPosts: 2, FriendRatio: 1, DryRun: true, RandSeed: 1})

	summary, err := f.Run()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Users)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
