package service

import (
	"context"
	"time"

	"circles/internal/models"
	"circles/internal/repository"
)

type userRepoStub struct {
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	countExistingFn func(context.Context, []string) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) CountExisting(ctx context.Context, ids []string) (int64, error) {
	return s.countExistingFn(ctx, ids)
}

type relRepoStub struct {
	addPeerFn            func(context.Context, string, models.RelationshipKind, string) (bool, error)
	removePeerFn         func(context.Context, string, models.RelationshipKind, string) (bool, error)
	hasPeerFn            func(context.Context, string, models.RelationshipKind, string) (bool, error)
	listPeersFn          func(context.Context, string, models.RelationshipKind) ([]string, error)
	listOwnersWithPeerFn func(context.Context, models.RelationshipKind, string) ([]string, error)
	aggregateExistsFn    func(context.Context, string, models.RelationshipKind) (bool, error)
}

func (s *relRepoStub) AddPeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error) {
	return s.addPeerFn(ctx, ownerID, kind, peerID)
}
func (s *relRepoStub) RemovePeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error) {
	return s.removePeerFn(ctx, ownerID, kind, peerID)
}
func (s *relRepoStub) HasPeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error) {
	return s.hasPeerFn(ctx, ownerID, kind, peerID)
}
func (s *relRepoStub) ListPeers(ctx context.Context, ownerID string, kind models.RelationshipKind) ([]string, error) {
	return s.listPeersFn(ctx, ownerID, kind)
}
func (s *relRepoStub) ListOwnersWithPeer(ctx context.Context, kind models.RelationshipKind, peerID string) ([]string, error) {
	return s.listOwnersWithPeerFn(ctx, kind, peerID)
}
func (s *relRepoStub) AggregateExists(ctx context.Context, ownerID string, kind models.RelationshipKind) (bool, error) {
	return s.aggregateExistsFn(ctx, ownerID, kind)
}

type requestRepoStub struct {
	addPendingFn      func(context.Context, string, string) (bool, error)
	consumePendingFn  func(context.Context, string, string) (bool, error)
	hasPendingFn      func(context.Context, string, string) (bool, error)
	listSentFn        func(context.Context, string) ([]models.RequestPending, error)
	listIncomingFn    func(context.Context, string) ([]models.RequestPending, error)
	aggregateExistsFn func(context.Context, string) (bool, error)
}

func (s *requestRepoStub) AddPending(ctx context.Context, requesterID, targetID string) (bool, error) {
	return s.addPendingFn(ctx, requesterID, targetID)
}
func (s *requestRepoStub) ConsumePending(ctx context.Context, requesterID, targetID string) (bool, error) {
	return s.consumePendingFn(ctx, requesterID, targetID)
}
func (s *requestRepoStub) HasPending(ctx context.Context, requesterID, targetID string) (bool, error) {
	return s.hasPendingFn(ctx, requesterID, targetID)
}
func (s *requestRepoStub) ListSent(ctx context.Context, requesterID string) ([]models.RequestPending, error) {
	return s.listSentFn(ctx, requesterID)
}
func (s *requestRepoStub) ListIncoming(ctx context.Context, targetID string) ([]models.RequestPending, error) {
	return s.listIncomingFn(ctx, targetID)
}
func (s *requestRepoStub) AggregateExists(ctx context.Context, requesterID string) (bool, error) {
	return s.aggregateExistsFn(ctx, requesterID)
}

type engagementRepoStub struct {
	hideOnPostFn    func(context.Context, string, string, time.Time) (repository.CascadeResult, error)
	restoreOnPostFn func(context.Context, string, string) (repository.CascadeResult, error)
}

func (s *engagementRepoStub) HideOnPost(ctx context.Context, ownerID, postID string, at time.Time) (repository.CascadeResult, error) {
	return s.hideOnPostFn(ctx, ownerID, postID, at)
}
func (s *engagementRepoStub) RestoreOnPost(ctx context.Context, ownerID, postID string) (repository.CascadeResult, error) {
	return s.restoreOnPostFn(ctx, ownerID, postID)
}

type eventRecorder struct {
	events []string
}

func (r *eventRecorder) PublishEvent(_ context.Context, userID, eventType, actorID string) error {
	r.events = append(r.events, eventType+":"+actorID+"->"+userID)
	return nil
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		countExistingFn: func(_ context.Context, ids []string) (int64, error) { return int64(len(ids)), nil },
	}
}

func noopRelRepo() *relRepoStub {
	return &relRepoStub{
		addPeerFn:            func(context.Context, string, models.RelationshipKind, string) (bool, error) { return true, nil },
		removePeerFn:         func(context.Context, string, models.RelationshipKind, string) (bool, error) { return true, nil },
		hasPeerFn:            func(context.Context, string, models.RelationshipKind, string) (bool, error) { return false, nil },
		listPeersFn:          func(context.Context, string, models.RelationshipKind) ([]string, error) { return nil, nil },
		listOwnersWithPeerFn: func(context.Context, models.RelationshipKind, string) ([]string, error) { return nil, nil },
		aggregateExistsFn:    func(context.Context, string, models.RelationshipKind) (bool, error) { return false, nil },
	}
}

func noopRequestRepo() *requestRepoStub {
	return &requestRepoStub{
		addPendingFn:      func(context.Context, string, string) (bool, error) { return true, nil },
		consumePendingFn:  func(context.Context, string, string) (bool, error) { return true, nil },
		hasPendingFn:      func(context.Context, string, string) (bool, error) { return false, nil },
		listSentFn:        func(context.Context, string) ([]models.RequestPending, error) { return nil, nil },
		listIncomingFn:    func(context.Context, string) ([]models.RequestPending, error) { return nil, nil },
		aggregateExistsFn: func(context.Context, string) (bool, error) { return false, nil },
	}
}

func fastCascade() *CascadeRunner {
	return NewCascadeRunner(2, time.Millisecond)
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
