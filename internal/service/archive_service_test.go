package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"circles/internal/models"
	"circles/internal/repository"
	"circles/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type archiveFixture struct {
	db      *gorm.DB
	now     time.Time
	posts   repository.PostRepository
	archive repository.ArchiveRepository
	owner   *models.User
}

func newArchiveFixture(t *testing.T) *archiveFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &archiveFixture{
		db:      db,
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		posts:   repository.NewPostRepository(db),
		archive: repository.NewArchiveRepository(db),
		owner:   testutil.CreateUser(t, db, "owner"),
	}
}

func (f *archiveFixture) service(posts repository.PostRepository) *ArchiveService {
	return NewArchiveService(posts, f.archive, fastCascade(), func() time.Time { return f.now }, 24*time.Hour)
}

func TestArchiveWithinRetentionKeepsPost(t *testing.T) {
	f := newArchiveFixture(t)
	svc := f.service(f.posts)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, f.owner.ID, "p")

	_, err := svc.ArchivePost(ctx, f.owner.ID, post.ID)
	require.NoError(t, err)

	f.now = f.now.Add(23 * time.Hour)
	listing, err := svc.ListArchive(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, post.ID, listing.Entries[0].PostID)
	assert.Zero(t, listing.Expired)

	exists, err := f.posts.Exists(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArchivePastRetentionDeletesPost(t *testing.T) {
	f := newArchiveFixture(t)
	svc := f.service(f.posts)
	ctx := context.Background()
	expiring := testutil.CreatePost(t, f.db, f.owner.ID, "old")
	comment := testutil.CreateComment(t, f.db, "someone", models.PostTarget(expiring.ID), "c")
	react := testutil.CreateReact(t, f.db, "someone", models.PostTarget(expiring.ID), models.ReactLike)

	_, err := svc.ArchivePost(ctx, f.owner.ID, expiring.ID)
	require.NoError(t, err)

	f.now = f.now.Add(25 * time.Hour)
	listing, err := svc.ListArchive(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
	assert.Equal(t, 1, listing.Expired)
	assert.Empty(t, listing.Warnings)

	exists, err := f.posts.Exists(ctx, expiring.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	var comments int64
	require.NoError(t, f.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&comments).Error)
	assert.Zero(t, comments)
	var reacts int64
	require.NoError(t, f.db.Model(&models.React{}).Where("id = ?", react.ID).Count(&reacts).Error)
	assert.Equal(t, int64(1), reacts, "reacts on an expired post are left in place")

	aggregate, err := f.archive.AggregateExists(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.False(t, aggregate)
}

func TestArchiveSweepKeepsOrderAndMixedEntries(t *testing.T) {
	f := newArchiveFixture(t)
	svc := f.service(f.posts)
	ctx := context.Background()

	first := testutil.CreatePost(t, f.db, f.owner.ID, "first")
	_, err := svc.ArchivePost(ctx, f.owner.ID, first.ID)
	require.NoError(t, err)

	f.now = f.now.Add(20 * time.Hour)
	second := testutil.CreatePost(t, f.db, f.owner.ID, "second")
	third := testutil.CreatePost(t, f.db, f.owner.ID, "third")
	for _, p := range []*models.Post{second, third} {
		_, err = svc.ArchivePost(ctx, f.owner.ID, p.ID)
		require.NoError(t, err)
	}

	f.now = f.now.Add(5 * time.Hour)
	listing, err := svc.ListArchive(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 2)
	assert.Equal(t, second.ID, listing.Entries[0].PostID)
	assert.Equal(t, third.ID, listing.Entries[1].PostID)

	stored, err := f.archive.List(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestArchiveExpiredPostAlreadyGone(t *testing.T) {
	f := newArchiveFixture(t)
	svc := f.service(f.posts)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, f.owner.ID, "p")

	_, err := svc.ArchivePost(ctx, f.owner.ID, post.ID)
	require.NoError(t, err)
	_, err = f.posts.HardDelete(ctx, post.ID)
	require.NoError(t, err)

	f.now = f.now.Add(48 * time.Hour)
	listing, err := svc.ListArchive(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
	assert.Empty(t, listing.Warnings)
}

type failingDeletePosts struct {
	repository.PostRepository
	err error
}

func (p failingDeletePosts) HardDelete(context.Context, string) (bool, error) {
	return false, p.err
}

func TestArchiveDeleteFailureKeepsEntry(t *testing.T) {
	f := newArchiveFixture(t)
	storeErr := models.NewInternalError(errors.New("lock timeout"))
	svc := f.service(failingDeletePosts{PostRepository: f.posts, err: storeErr})
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, f.owner.ID, "p")

	_, err := svc.ArchivePost(ctx, f.owner.ID, post.ID)
	require.NoError(t, err)

	f.now = f.now.Add(25 * time.Hour)
	listing, err := svc.ListArchive(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
	require.Len(t, listing.Warnings, 1)
	assert.Equal(t, models.CodeInconsistentCascade, listing.Warnings[0].Code)

	stored, err := f.archive.List(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	listing, err = f.service(f.posts).ListArchive(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
	assert.Equal(t, 1, listing.Expired)
}

func TestArchivePostRules(t *testing.T) {
	f := newArchiveFixture(t)
	svc := f.service(f.posts)
	ctx := context.Background()
	post := testutil.CreatePost(t, f.db, f.owner.ID, "p")

	_, err := svc.ArchivePost(ctx, f.owner.ID, "missing")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = svc.ArchivePost(ctx, "intruder", post.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = svc.ArchivePost(ctx, f.owner.ID, post.ID)
	require.NoError(t, err)
	_, err = svc.ArchivePost(ctx, f.owner.ID, post.ID)
	assert.True(t, models.IsCode(err, models.CodeAlreadyArchived))

	_, err = svc.RemoveFromArchive(ctx, f.owner.ID, post.ID)
	require.NoError(t, err)
	_, err = svc.RemoveFromArchive(ctx, f.owner.ID, post.ID)
	require.NoError(t, err)

	exists, err := f.posts.Exists(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, exists, "removing from the archive keeps the post")
}
