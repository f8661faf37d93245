package service

import (
	"context"
	"time"

	"circles/internal/cache"
	"circles/internal/models"
	"circles/internal/repository"
)

const defaultFeedLimit = 20

// FeedService assembles the per-viewer feed and profile post listings.
type FeedService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	relRepo     repository.RelationshipRepository
	blockersTTL time.Duration
}

func NewFeedService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	relRepo repository.RelationshipRepository,
	blockersTTL time.Duration,
) *FeedService {
	if blockersTTL <= 0 {
		blockersTTL = cache.BlockersTTL
	}
	return &FeedService{userRepo: userRepo, postRepo: postRepo, relRepo: relRepo, blockersTTL: blockersTTL}
}

// ListFeed returns live posts newest first, excluding posts the viewer hid
// and posts owned by anyone who blocked the viewer.
func (s *FeedService) ListFeed(ctx context.Context, viewerID string, limit, offset int) ([]*models.Post, error) {
	limit, offset = normalizePage(limit, offset)

	blockers, err := s.blockersOf(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	return s.postRepo.ListFeed(ctx, repository.FeedQuery{
		ViewerID:        viewerID,
		ExcludeOwnerIDs: blockers,
		Limit:           limit,
		Offset:          offset,
	})
}

// ListUserPosts returns ownerID's live posts for viewerID, newest first,
// without the posts the viewer hid. A private account is listed only to its
// owner. An owner who blocked the viewer is reported as not found.
func (s *FeedService) ListUserPosts(ctx context.Context, viewerID, ownerID string, limit, offset int) ([]*models.Post, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if viewerID != ownerID {
		if owner.IsPrivate {
			return nil, models.NewAccountPrivateError(ownerID)
		}
		blocked, err := s.relRepo.HasPeer(ctx, ownerID, models.RelationshipBlocked, viewerID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, models.NewNotFoundError("User", ownerID)
		}
	}

	limit, offset = normalizePage(limit, offset)
	return s.postRepo.ListFeed(ctx, repository.FeedQuery{
		ViewerID: viewerID,
		OwnerID:  ownerID,
		Limit:    limit,
		Offset:   offset,
	})
}

// ListMyPosts returns every live post of ownerID, newest first, including
// posts the owner hid from their own feed.
func (s *FeedService) ListMyPosts(ctx context.Context, ownerID string, limit, offset int) ([]*models.Post, error) {
	limit, offset = normalizePage(limit, offset)
	return s.postRepo.ListFeed(ctx, repository.FeedQuery{
		OwnerID: ownerID,
		Limit:   limit,
		Offset:  offset,
	})
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *FeedService) blockersOf(ctx context.Context, viewerID string) ([]string, error) {
	var ids []string
	err := cache.Aside(ctx, cache.BlockersKey(viewerID), &ids, s.blockersTTL, func() error {
		var err error
		ids, err = s.relRepo.ListOwnersWithPeer(ctx, models.RelationshipBlocked, viewerID)
		return err
	})
	return ids, err
}
