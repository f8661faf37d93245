package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	BlockersKeyPrefix = "blockers:%s"
	FriendsKeyPrefix  = "friends:%s"
)

const (
	BlockersTTL = time.Minute
	FriendsTTL  = 5 * time.Minute
)

// BlockersKey caches the IDs of users whose blocked set contains userID.
func BlockersKey(userID string) string {
	return fmt.Sprintf(BlockersKeyPrefix, userID)
}

// FriendsKey caches the friend IDs of userID.
func FriendsKey(userID string) string {
	return fmt.Sprintf(FriendsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateBlockers(ctx context.Context, userID string) {
	Invalidate(ctx, BlockersKey(userID))
}

func InvalidateFriends(ctx context.Context, userIDs ...string) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, FriendsKey(id))
	}
	Invalidate(ctx, keys...)
}
