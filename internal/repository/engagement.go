package repository

import (
	"context"
	"time"

	"circles/internal/models"
	"circles/internal/observability"

	"gorm.io/gorm"
)

// CascadeResult counts rows flipped by an engagement cascade.
type CascadeResult struct {
	Comments int64
	Reacts   int64
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// Update writes the content and tags of a live comment.
	Update(ctx context.Context, comment *models.Comment) error
	ListByTarget(ctx context.Context, target models.Target) ([]*models.Comment, error)
}

// ReactRepository defines the interface for react data operations
type ReactRepository interface {
	Create(ctx context.Context, react *models.React) error
	GetByID(ctx context.Context, id string) (*models.React, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// EngagementRepository applies the hide cascade to one user's comments and
// reacts on one post.
type EngagementRepository interface {
	// HideOnPost soft-deletes the live comments and reacts of ownerID on
	// postID and marks them as hidden by cascade.
	HideOnPost(ctx context.Context, ownerID, postID string, at time.Time) (CascadeResult, error)
	// RestoreOnPost reverses HideOnPost. Rows soft-deleted for any other
	// reason stay deleted.
	RestoreOnPost(ctx context.Context, ownerID, postID string) (CascadeResult, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Scopes(Live).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(comment).
		Where("is_deleted = ?", false).
		Select("content", "tags").
		Updates(comment)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", comment.ID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"comment_id": comment.ID, "owner_id": comment.OwnerID})
	return nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, target models.Target) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).Scopes(Live).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

type reactRepository struct {
	db *gorm.DB
}

// NewReactRepository creates a new react repository
func NewReactRepository(db *gorm.DB) ReactRepository {
	return &reactRepository{db: db}
}

func (r *reactRepository) Create(ctx context.Context, react *models.React) error {
	if err := r.db.WithContext(ctx).Create(react).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reactRepository) GetByID(ctx context.Context, id string) (*models.React, error) {
	var react models.React
	if err := r.db.WithContext(ctx).Scopes(Live).Where("id = ?", id).First(&react).Error; err != nil {
		return nil, notFoundOr(err, "React", id)
	}
	return &react, nil
}

func (r *reactRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.React{}).
		Where("id = ?", id).
		Updates(markDeleted(at, false)).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement cascade repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) HideOnPost(ctx context.Context, ownerID, postID string, at time.Time) (CascadeResult, error) {
	var result CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := tx.Model(&models.Comment{}).
			Where("owner_id = ? AND target_kind = ? AND target_id = ? AND is_deleted = ?", ownerID, models.TargetPost, postID, false).
			Updates(markDeleted(at, true))
		if comments.Error != nil {
			return comments.Error
		}
		reacts := tx.Model(&models.React{}).
			Where("owner_id = ? AND target_kind = ? AND target_id = ? AND is_deleted = ?", ownerID, models.TargetPost, postID, false).
			Updates(markDeleted(at, true))
		if reacts.Error != nil {
			return reacts.Error
		}
		result = CascadeResult{Comments: comments.RowsAffected, Reacts: reacts.RowsAffected}
		return nil
	})
	if err != nil {
		return CascadeResult{}, models.NewInternalError(err)
	}
	observability.CascadeRows.WithLabelValues("hide", "comments").Add(float64(result.Comments))
	observability.CascadeRows.WithLabelValues("hide", "reacts").Add(float64(result.Reacts))
	return result, nil
}

func (r *engagementRepository) RestoreOnPost(ctx context.Context, ownerID, postID string) (CascadeResult, error) {
	restore := map[string]interface{}{"is_deleted": false, "deleted_at": nil, "cascade_hidden": false}

	var result CascadeResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		comments := tx.Model(&models.Comment{}).
			Where("owner_id = ? AND target_kind = ? AND target_id = ? AND cascade_hidden = ?", ownerID, models.TargetPost, postID, true).
			Updates(restore)
		if comments.Error != nil {
			return comments.Error
		}
		reacts := tx.Model(&models.React{}).
			Where("owner_id = ? AND target_kind = ? AND target_id = ? AND cascade_hidden = ?", ownerID, models.TargetPost, postID, true).
			Updates(restore)
		if reacts.Error != nil {
			return reacts.Error
		}
		result = CascadeResult{Comments: comments.RowsAffected, Reacts: reacts.RowsAffected}
		return nil
	})
	if err != nil {
		return CascadeResult{}, models.NewInternalError(err)
	}
	observability.CascadeRows.WithLabelValues("unhide", "comments").Add(float64(result.Comments))
	observability.CascadeRows.WithLabelValues("unhide", "reacts").Add(float64(result.Reacts))
	return result, nil
}
