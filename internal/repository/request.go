package repository

import (
	"context"

	"circles/internal/models"
	"circles/internal/observability"

	"gorm.io/gorm"
)

// RequestRepository stores each requester's set of pending friend requests.
type RequestRepository interface {
	// AddPending inserts targetID into requester's pending set if absent.
	AddPending(ctx context.Context, requesterID, targetID string) (added bool, err error)
	// ConsumePending removes targetID from requester's pending set and
	// reports whether an entry was actually removed.
	ConsumePending(ctx context.Context, requesterID, targetID string) (consumed bool, err error)
	HasPending(ctx context.Context, requesterID, targetID string) (bool, error)
	ListSent(ctx context.Context, requesterID string) ([]models.RequestPending, error)
	ListIncoming(ctx context.Context, targetID string) ([]models.RequestPending, error)
	AggregateExists(ctx context.Context, requesterID string) (bool, error)
}

type requestRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewRequestRepository creates a new friend request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db, log: observability.NewRepoLogger("request_pendings")}
}

func (r *requestRepository) AddPending(ctx context.Context, requesterID, targetID string) (bool, error) {
	added, err := insertMember(ctx, r.db,
		&models.RequestAggregate{RequesterID: requesterID},
		&models.RequestPending{RequesterID: requesterID, TargetID: targetID},
		map[string]interface{}{"requester_id": requesterID},
	)
	if err != nil {
		r.log.LogError(ctx, err, "add_pending")
		return false, err
	}
	if added {
		r.log.LogCreate(ctx, map[string]interface{}{"requester_id": requesterID, "target_id": targetID})
	}
	return added, nil
}

func (r *requestRepository) ConsumePending(ctx context.Context, requesterID, targetID string) (bool, error) {
	n, err := deleteMembers(ctx, r.db, &models.RequestPending{}, &models.RequestAggregate{},
		map[string]interface{}{"requester_id": requesterID, "target_id": targetID},
		map[string]interface{}{"requester_id": requesterID},
	)
	if err != nil {
		r.log.LogError(ctx, err, "consume_pending")
		return false, err
	}
	if n > 0 {
		r.log.LogDelete(ctx, map[string]interface{}{"requester_id": requesterID, "target_id": targetID})
	}
	return n > 0, nil
}

func (r *requestRepository) HasPending(ctx context.Context, requesterID, targetID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RequestPending{}).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *requestRepository) ListSent(ctx context.Context, requesterID string) ([]models.RequestPending, error) {
	var pendings []models.RequestPending
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("id ASC").
		Find(&pendings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pendings, nil
}

func (r *requestRepository) ListIncoming(ctx context.Context, targetID string) ([]models.RequestPending, error) {
	var pendings []models.RequestPending
	if err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("id ASC").
		Find(&pendings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pendings, nil
}

func (r *requestRepository) AggregateExists(ctx context.Context, requesterID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RequestAggregate{}).
		Where("requester_id = ?", requesterID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
