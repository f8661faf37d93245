package service

import (
	"context"
	"log/slog"

	"circles/internal/cache"
	"circles/internal/middleware"
	"circles/internal/models"
	"circles/internal/notifications"
	"circles/internal/repository"
)

// EventPublisher delivers social-graph events to a user.
type EventPublisher interface {
	PublishEvent(ctx context.Context, userID, eventType, actorID string) error
}

// FriendService drives the friend request state machine
// NONE -> PENDING -> {FRIENDS | NONE} and friendship removal.
type FriendService struct {
	userRepo    repository.UserRepository
	relRepo     repository.RelationshipRepository
	requestRepo repository.RequestRepository
	cascade     *CascadeRunner
	events      EventPublisher
}

// NewFriendService returns a new FriendService.
func NewFriendService(
	userRepo repository.UserRepository,
	relRepo repository.RelationshipRepository,
	requestRepo repository.RequestRepository,
	cascade *CascadeRunner,
	events EventPublisher,
) *FriendService {
	return &FriendService{
		userRepo:    userRepo,
		relRepo:     relRepo,
		requestRepo: requestRepo,
		cascade:     cascade,
		events:      events,
	}
}

// SendRequest queues a friend request from one user to another.
func (s *FriendService) SendRequest(ctx context.Context, fromID, toID string) (*models.Ack, error) {
	if fromID == toID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, toID); err != nil {
		return nil, err
	}

	friends, err := s.relRepo.HasPeer(ctx, fromID, models.RelationshipFriends, toID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, models.NewConflictError(models.CodeAlreadyFriends, "You are already friends")
	}

	added, err := s.requestRepo.AddPending(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, models.NewConflictError(models.CodeAlreadyPending, "Friend request already sent")
	}

	s.publish(ctx, toID, notifications.EventFriendRequestReceived, fromID)
	return models.NewAck("Friend request sent"), nil
}

// AcceptRequest consumes the pending request from requesterID to accepterID
// and forms the friendship in both directions.
func (s *FriendService) AcceptRequest(ctx context.Context, accepterID, requesterID string) (*models.Ack, error) {
	consumed, err := s.requestRepo.ConsumePending(ctx, requesterID, accepterID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, models.NewRequestNotFoundError(requesterID, accepterID)
	}

	added, err := s.relRepo.AddPeer(ctx, accepterID, models.RelationshipFriends, requesterID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, models.NewConflictError(models.CodeAlreadyFriends, "You are already friends")
	}

	warning := s.cascade.Run(ctx, "accept_friend_request", func(ctx context.Context) error {
		_, err := s.relRepo.AddPeer(ctx, requesterID, models.RelationshipFriends, accepterID)
		return err
	})

	cache.InvalidateFriends(ctx, accepterID, requesterID)
	s.publish(ctx, requesterID, notifications.EventFriendRequestAccepted, accepterID)
	return models.NewAck("Friend request accepted").Warn(warning), nil
}

// DeclineRequest removes a pending request addressed to targetID without
// forming a friendship.
func (s *FriendService) DeclineRequest(ctx context.Context, targetID, requesterID string) (*models.Ack, error) {
	consumed, err := s.requestRepo.ConsumePending(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, models.NewRequestNotFoundError(requesterID, targetID)
	}
	return models.NewAck("Friend request declined"), nil
}

// CancelRequest withdraws a request the caller sent.
func (s *FriendService) CancelRequest(ctx context.Context, requesterID, targetID string) (*models.Ack, error) {
	consumed, err := s.requestRepo.ConsumePending(ctx, requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, models.NewRequestNotFoundError(requesterID, targetID)
	}
	return models.NewAck("Friend request cancelled"), nil
}

// RemoveFriend removes the friendship from both sides. It succeeds when
// either side still held it.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID string) (*models.Ack, error) {
	mine, err := s.relRepo.RemovePeer(ctx, userID, models.RelationshipFriends, friendID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.relRepo.RemovePeer(ctx, friendID, models.RelationshipFriends, userID)
	if err != nil {
		return nil, err
	}
	if !mine && !theirs {
		return nil, models.NewFriendshipNotFoundError(userID, friendID)
	}

	cache.InvalidateFriends(ctx, userID, friendID)
	return models.NewAck("Friend removed"), nil
}

// ListFriends returns the friend IDs of userID.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := cache.Aside(ctx, cache.FriendsKey(userID), &ids, cache.FriendsTTL, func() error {
		var err error
		ids, err = s.relRepo.ListPeers(ctx, userID, models.RelationshipFriends)
		return err
	})
	return ids, err
}

// ListIncoming returns requests waiting on userID.
func (s *FriendService) ListIncoming(ctx context.Context, userID string) ([]models.RequestPending, error) {
	return s.requestRepo.ListIncoming(ctx, userID)
}

// ListSent returns requests userID has sent.
func (s *FriendService) ListSent(ctx context.Context, userID string) ([]models.RequestPending, error) {
	return s.requestRepo.ListSent(ctx, userID)
}

func (s *FriendService) publish(ctx context.Context, userID, eventType, actorID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(ctx, userID, eventType, actorID); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.String("event", eventType),
			slog.String("error", err.Error()),
		)
	}
}
