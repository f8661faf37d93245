package repository

import (
	"context"

	"circles/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VisibilityRepository stores per-user hidden and saved post entries.
type VisibilityRepository interface {
	Hide(ctx context.Context, userID, postID string) (added bool, err error)
	Unhide(ctx context.Context, userID, postID string) (removed bool, err error)
	IsHidden(ctx context.Context, userID, postID string) (bool, error)
	Save(ctx context.Context, userID, postID string) (added bool, err error)
	Unsave(ctx context.Context, userID, postID string) (removed bool, err error)
	IsSaved(ctx context.Context, userID, postID string) (bool, error)
}

type visibilityRepository struct {
	db *gorm.DB
}

// NewVisibilityRepository creates a new visibility repository
func NewVisibilityRepository(db *gorm.DB) VisibilityRepository {
	return &visibilityRepository{db: db}
}

func (r *visibilityRepository) insert(ctx context.Context, entry interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *visibilityRepository) remove(ctx context.Context, model interface{}, userID, postID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(model)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *visibilityRepository) exists(ctx context.Context, model interface{}, userID, postID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *visibilityRepository) Hide(ctx context.Context, userID, postID string) (bool, error) {
	return r.insert(ctx, &models.HiddenPost{UserID: userID, PostID: postID})
}

func (r *visibilityRepository) Unhide(ctx context.Context, userID, postID string) (bool, error) {
	return r.remove(ctx, &models.HiddenPost{}, userID, postID)
}

func (r *visibilityRepository) IsHidden(ctx context.Context, userID, postID string) (bool, error) {
	return r.exists(ctx, &models.HiddenPost{}, userID, postID)
}

func (r *visibilityRepository) Save(ctx context.Context, userID, postID string) (bool, error) {
	return r.insert(ctx, &models.SavedPost{UserID: userID, PostID: postID})
}

func (r *visibilityRepository) Unsave(ctx context.Context, userID, postID string) (bool, error) {
	return r.remove(ctx, &models.SavedPost{}, userID, postID)
}

func (r *visibilityRepository) IsSaved(ctx context.Context, userID, postID string) (bool, error) {
	return r.exists(ctx, &models.SavedPost{}, userID, postID)
}
