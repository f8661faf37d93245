package service

import (
	"context"

	"circles/internal/cache"
	"circles/internal/models"
	"circles/internal/repository"
)

// BlockService maintains each user's blocked set. Blocking is one-directional.
type BlockService struct {
	userRepo repository.UserRepository
	relRepo  repository.RelationshipRepository
}

func NewBlockService(userRepo repository.UserRepository, relRepo repository.RelationshipRepository) *BlockService {
	return &BlockService{userRepo: userRepo, relRepo: relRepo}
}

// BlockUser adds the user with the given email to userID's blocked set.
func (s *BlockService) BlockUser(ctx context.Context, userID, email string) (*models.Ack, error) {
	peer, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if peer.ID == userID {
		return nil, models.NewValidationError("Cannot block yourself")
	}

	added, err := s.relRepo.AddPeer(ctx, userID, models.RelationshipBlocked, peer.ID)
	if err != nil {
		return nil, err
	}
	if !added {
		return models.NewAck("User is already blocked"), nil
	}

	cache.InvalidateBlockers(ctx, peer.ID)
	return models.NewAck("User blocked"), nil
}

// UnblockUser removes the user with the given email from userID's blocked set.
func (s *BlockService) UnblockUser(ctx context.Context, userID, email string) (*models.Ack, error) {
	peer, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	removed, err := s.relRepo.RemovePeer(ctx, userID, models.RelationshipBlocked, peer.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return models.NewAck("User was not blocked"), nil
	}

	cache.InvalidateBlockers(ctx, peer.ID)
	return models.NewAck("User unblocked"), nil
}

// ListBlocked returns the IDs userID has blocked.
func (s *BlockService) ListBlocked(ctx context.Context, userID string) ([]string, error) {
	return s.relRepo.ListPeers(ctx, userID, models.RelationshipBlocked)
}
