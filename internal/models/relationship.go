package models

import "time"

// RelationshipKind selects one of the per-user peer sets.
type RelationshipKind string

const (
	RelationshipFriends RelationshipKind = "friends"
	RelationshipBlocked RelationshipKind = "blocked"
)

// RelationshipAggregate is the header row of a user's peer set. It exists
// exactly while the set has at least one member.
type RelationshipAggregate struct {
	ID        uint             `gorm:"primaryKey" json:"-"`
	OwnerID   string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_relationship_aggregate_owner" json:"owner_id"`
	Kind      RelationshipKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_relationship_aggregate_owner" json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}

// RelationshipMember is one peer in an aggregate.
type RelationshipMember struct {
	ID        uint             `gorm:"primaryKey" json:"-"`
	OwnerID   string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_relationship_member" json:"owner_id"`
	Kind      RelationshipKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_relationship_member" json:"kind"`
	PeerID    string           `gorm:"type:varchar(36);not null;uniqueIndex:idx_relationship_member;index:idx_relationship_member_peer" json:"peer_id"`
	CreatedAt time.Time        `json:"created_at"`
}

// RequestAggregate holds the pending outgoing friend requests of one requester.
type RequestAggregate struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	RequesterID string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestPending is one outstanding request.
type RequestPending struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	RequesterID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_request_pending" json:"requester_id"`
	TargetID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_request_pending;index:idx_request_pending_target" json:"target_id"`
	CreatedAt   time.Time `json:"created_at"`
}
