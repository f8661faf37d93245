package repository

import (
	"context"
	"time"

	"circles/internal/models"
	"circles/internal/observability"

	"gorm.io/gorm"
)

// ArchiveRepository stores each user's archive of posts.
type ArchiveRepository interface {
	// Append adds postID with archivedAt if it is not already archived.
	Append(ctx context.Context, ownerID, postID string, archivedAt time.Time) (added bool, err error)
	// List returns the entries in insertion order.
	List(ctx context.Context, ownerID string) ([]models.ArchiveEntry, error)
	// Prune removes the given posts from the archive in one transaction and
	// deletes the archive once it is empty.
	Prune(ctx context.Context, ownerID string, postIDs []string) (removed int64, err error)
	AggregateExists(ctx context.Context, ownerID string) (bool, error)
}

type archiveRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db, log: observability.NewRepoLogger("archive_entries")}
}

func (r *archiveRepository) Append(ctx context.Context, ownerID, postID string, archivedAt time.Time) (bool, error) {
	added, err := insertMember(ctx, r.db,
		&models.ArchiveAggregate{OwnerID: ownerID},
		&models.ArchiveEntry{OwnerID: ownerID, PostID: postID, ArchivedAt: archivedAt},
		map[string]interface{}{"owner_id": ownerID},
	)
	if err != nil {
		r.log.LogError(ctx, err, "append")
		return false, err
	}
	if added {
		r.log.LogCreate(ctx, map[string]interface{}{"owner_id": ownerID, "post_id": postID})
	}
	return added, nil
}

func (r *archiveRepository) List(ctx context.Context, ownerID string) ([]models.ArchiveEntry, error) {
	entries := []models.ArchiveEntry{}
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *archiveRepository) Prune(ctx context.Context, ownerID string, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	n, err := deleteMembers(ctx, r.db, &models.ArchiveEntry{}, &models.ArchiveAggregate{},
		map[string]interface{}{"owner_id": ownerID, "post_id": postIDs},
		map[string]interface{}{"owner_id": ownerID},
	)
	if err != nil {
		r.log.LogError(ctx, err, "prune")
		return 0, err
	}
	if n > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"owner_id": ownerID, "post_ids": postIDs})
	}
	return n, nil
}

func (r *archiveRepository) AggregateExists(ctx context.Context, ownerID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ArchiveAggregate{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
