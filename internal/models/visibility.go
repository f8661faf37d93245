package models

import "time"

// HiddenPost removes a post from one user's feed.
type HiddenPost struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_hidden_user_post" json:"user_id"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_hidden_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedPost bookmarks a post for one user.
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_post" json:"user_id"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ArchiveAggregate is the header row of a user's archive.
type ArchiveAggregate struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OwnerID   string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ArchiveEntry records when a post entered its owner's archive.
// Entries are ordered by ID, which follows insertion order.
type ArchiveEntry struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	OwnerID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_archive_entry" json:"owner_id"`
	PostID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_archive_entry" json:"post_id"`
	ArchivedAt time.Time `gorm:"not null" json:"archived_at"`
}
