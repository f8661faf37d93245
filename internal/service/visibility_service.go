package service

import (
	"context"

	"circles/internal/models"
	"circles/internal/repository"
)

// VisibilityService manages per-user hidden and saved posts. Hiding a post
// also hides the user's own comments and reacts on it.
type VisibilityService struct {
	postRepo       repository.PostRepository
	visibilityRepo repository.VisibilityRepository
	engagementRepo repository.EngagementRepository
	cascade        *CascadeRunner
	now            Clock
}

func NewVisibilityService(
	postRepo repository.PostRepository,
	visibilityRepo repository.VisibilityRepository,
	engagementRepo repository.EngagementRepository,
	cascade *CascadeRunner,
	now Clock,
) *VisibilityService {
	if now == nil {
		now = UTCNow
	}
	return &VisibilityService{
		postRepo:       postRepo,
		visibilityRepo: visibilityRepo,
		engagementRepo: engagementRepo,
		cascade:        cascade,
		now:            now,
	}
}

// HidePost hides postID for userID and soft-deletes the user's live comments
// and reacts on it. Hiding an unknown or already hidden post is accepted.
func (s *VisibilityService) HidePost(ctx context.Context, userID, postID string) (*models.Ack, error) {
	if _, err := s.visibilityRepo.Hide(ctx, userID, postID); err != nil {
		return nil, err
	}

	at := s.now()
	warning := s.cascade.Run(ctx, "hide_post", func(ctx context.Context) error {
		_, err := s.engagementRepo.HideOnPost(ctx, userID, postID, at)
		return err
	})
	return models.NewAck("Post hidden").Warn(warning), nil
}

// UnhidePost reverses HidePost, restoring exactly the rows it hid.
func (s *VisibilityService) UnhidePost(ctx context.Context, userID, postID string) (*models.Ack, error) {
	if _, err := s.visibilityRepo.Unhide(ctx, userID, postID); err != nil {
		return nil, err
	}

	warning := s.cascade.Run(ctx, "unhide_post", func(ctx context.Context) error {
		_, err := s.engagementRepo.RestoreOnPost(ctx, userID, postID)
		return err
	})
	return models.NewAck("Post unhidden").Warn(warning), nil
}

// SavePost bookmarks a live post.
func (s *VisibilityService) SavePost(ctx context.Context, userID, postID string) (*models.Ack, error) {
	if err := s.requireLivePost(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.visibilityRepo.Save(ctx, userID, postID); err != nil {
		return nil, err
	}
	return models.NewAck("Post saved"), nil
}

// UnsavePost removes a bookmark.
func (s *VisibilityService) UnsavePost(ctx context.Context, userID, postID string) (*models.Ack, error) {
	if err := s.requireLivePost(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.visibilityRepo.Unsave(ctx, userID, postID); err != nil {
		return nil, err
	}
	return models.NewAck("Post unsaved"), nil
}

func (s *VisibilityService) ListSaved(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.postRepo.ListSaved(ctx, userID)
}

func (s *VisibilityService) ListHidden(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.postRepo.ListHidden(ctx, userID)
}

func (s *VisibilityService) requireLivePost(ctx context.Context, postID string) error {
	_, err := s.postRepo.GetByID(ctx, postID)
	return err
}
