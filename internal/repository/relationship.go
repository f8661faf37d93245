package repository

import (
	"context"

	"circles/internal/models"
	"circles/internal/observability"

	"gorm.io/gorm"
)

// RelationshipRepository stores the per-user Friends and BlockedUsers peer sets.
type RelationshipRepository interface {
	// AddPeer inserts peer into owner's set, creating the set if needed.
	// added is false when the peer was already present.
	AddPeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (added bool, err error)
	// RemovePeer removes peer and deletes the set once it is empty.
	RemovePeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (removed bool, err error)
	HasPeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error)
	ListPeers(ctx context.Context, ownerID string, kind models.RelationshipKind) ([]string, error)
	// ListOwnersWithPeer returns the owners whose set of the given kind contains peerID.
	ListOwnersWithPeer(ctx context.Context, kind models.RelationshipKind, peerID string) ([]string, error)
	AggregateExists(ctx context.Context, ownerID string, kind models.RelationshipKind) (bool, error)
}

type relationshipRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRelationshipRepository creates a new relationship repository
func NewRelationshipRepository(db *gorm.DB) RelationshipRepository {
	return &relationshipRepository{db: db, log: observability.NewRepoLogger("relationship_members")}
}

func (r *relationshipRepository) AddPeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error) {
	added, err := insertMember(ctx, r.db,
		&models.RelationshipAggregate{OwnerID: ownerID, Kind: kind},
		&models.RelationshipMember{OwnerID: ownerID, Kind: kind, PeerID: peerID},
		map[string]interface{}{"owner_id": ownerID, "kind": kind},
	)
	if err != nil {
		r.log.LogError(ctx, err, "add_peer")
		return false, err
	}
	if added {
		r.log.LogCreate(ctx, map[string]interface{}{"owner_id": ownerID, "kind": kind, "peer_id": peerID})
	}
	return added, nil
}

func (r *relationshipRepository) RemovePeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error) {
	n, err := deleteMembers(ctx, r.db, &models.RelationshipMember{}, &models.RelationshipAggregate{},
		map[string]interface{}{"owner_id": ownerID, "kind": kind, "peer_id": peerID},
		map[string]interface{}{"owner_id": ownerID, "kind": kind},
	)
	if err != nil {
		r.log.LogError(ctx, err, "remove_peer")
		return false, err
	}
	if n > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"owner_id": ownerID, "kind": kind, "peer_id": peerID})
	}
	return n > 0, nil
}

func (r *relationshipRepository) HasPeer(ctx context.Context, ownerID string, kind models.RelationshipKind, peerID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RelationshipMember{}).
		Where("owner_id = ? AND kind = ? AND peer_id = ?", ownerID, kind, peerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *relationshipRepository) ListPeers(ctx context.Context, ownerID string, kind models.RelationshipKind) ([]string, error) {
	peers := []string{}
	if err := r.db.WithContext(ctx).Model(&models.RelationshipMember{}).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("id ASC").
		Pluck("peer_id", &peers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return peers, nil
}

func (r *relationshipRepository) ListOwnersWithPeer(ctx context.Context, kind models.RelationshipKind, peerID string) ([]string, error) {
	owners := []string{}
	if err := r.db.WithContext(ctx).Model(&models.RelationshipMember{}).
		Where("kind = ? AND peer_id = ?", kind, peerID).
		Pluck("owner_id", &owners).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return owners, nil
}

func (r *relationshipRepository) AggregateExists(ctx context.Context, ownerID string, kind models.RelationshipKind) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RelationshipAggregate{}).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
