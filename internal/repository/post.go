package repository

import (
	"context"
	"time"

	"circles/internal/models"
	"circles/internal/observability"

	"gorm.io/gorm"
)

// FeedQuery selects live posts, newest first. A non-empty ViewerID drops
// the posts that viewer has hidden. A non-empty OwnerID restricts the
// listing to that owner.
type FeedQuery struct {
	ViewerID        string
	OwnerID         string
	ExcludeOwnerIDs []string
	Limit           int
	Offset          int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// Update writes the editable columns of a live post.
	Update(ctx context.Context, post *models.Post) error
	// GetByID returns a live post.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Exists reports whether the post row exists, soft-deleted or not.
	Exists(ctx context.Context, id string) (bool, error)
	// HardDelete removes the post and every comment whose target is the post.
	// Reacts on the post are left in place.
	HardDelete(ctx context.Context, id string) (deleted bool, err error)
	ListFeed(ctx context.Context, q FeedQuery) ([]*models.Post, error)
	ListSaved(ctx context.Context, userID string) ([]*models.Post, error)
	ListHidden(ctx context.Context, userID string) ([]*models.Post, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "owner_id": post.OwnerID})
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(post).
		Where("is_deleted = ?", false).
		Select("title", "desc", "allow_comments", "images", "tags").
		Updates(post)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"post_id": post.ID, "owner_id": post.OwnerID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{})).
		Where("posts.id = ? AND posts.is_deleted = ?", id, false).
		First(&post).Error
	if err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) HardDelete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return tx.Where("target_kind = ? AND target_id = ?", models.TargetPost, id).
			Delete(&models.Comment{}).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "hard_delete")
		return false, models.NewInternalError(err)
	}
	if deleted {
		r.log.LogDelete(ctx, map[string]interface{}{"post_id": id})
	}
	return deleted, nil
}

func (r *postRepository) ListFeed(ctx context.Context, q FeedQuery) ([]*models.Post, error) {
	defer observability.TrackQuery("list_feed", "posts")()

	query := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{})).
		Where("posts.is_deleted = ?", false)
	if q.ViewerID != "" {
		hidden := r.db.Model(&models.HiddenPost{}).Select("post_id").Where("user_id = ?", q.ViewerID)
		query = query.Where("posts.id NOT IN (?)", hidden)
	}
	if q.OwnerID != "" {
		query = query.Where("posts.owner_id = ?", q.OwnerID)
	}
	if len(q.ExcludeOwnerIDs) > 0 {
		query = query.Where("posts.owner_id NOT IN ?", q.ExcludeOwnerIDs)
	}

	var posts []*models.Post
	if err := query.
		Order("posts.created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListSaved(ctx context.Context, userID string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{})).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id AND saved_posts.user_id = ?", userID).
		Where("posts.is_deleted = ?", false).
		Order("saved_posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListHidden(ctx context.Context, userID string) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx).Model(&models.Post{})).
		Joins("JOIN hidden_posts ON hidden_posts.post_id = posts.id AND hidden_posts.user_id = ?", userID).
		Where("posts.is_deleted = ?", false).
		Order("hidden_posts.id DESC").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails selects the post columns plus live engagement counts.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, "+
		"(SELECT COUNT(*) FROM comments WHERE comments.target_kind = ? AND comments.target_id = posts.id AND comments.is_deleted = ?) AS comments_count, "+
		"(SELECT COUNT(*) FROM reacts WHERE reacts.target_kind = ? AND reacts.target_id = posts.id AND reacts.is_deleted = ?) AS reacts_count",
		models.TargetPost, false, models.TargetPost, false)
}

// markDeleted returns the column set that soft-deletes a row at t.
func markDeleted(t time.Time, cascade bool) map[string]interface{} {
	return map[string]interface{}{"is_deleted": true, "deleted_at": t, "cascade_hidden": cascade}
}
