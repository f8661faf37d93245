// Package testutil holds shared helpers for package tests.
package testutil

import (
	"testing"
	"time"

	"circles/internal/database"
	"circles/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database. The pool is pinned to
// one connection so every query sees the same in-memory schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with a derived email.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost inserts a live post owned by ownerID.
func CreatePost(t *testing.T, db *gorm.DB, ownerID, title string) *models.Post {
	t.Helper()
	p := &models.Post{OwnerID: ownerID, Title: title, AllowComments: true}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateComment inserts a live comment by ownerID on target.
func CreateComment(t *testing.T, db *gorm.DB, ownerID string, target models.Target, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{OwnerID: ownerID, Target: target, Content: content}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateReact inserts a live react by ownerID on target.
func CreateReact(t *testing.T, db *gorm.DB, ownerID string, target models.Target, kind models.ReactType) *models.React {
	t.Helper()
	r := &models.React{OwnerID: ownerID, Target: target, Type: kind}
	require.NoError(t, db.Create(r).Error)
	return r
}
