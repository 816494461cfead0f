package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	historyKeyPrefix = "history:%d"
	sourceKeyPrefix  = "source:%s"
	userKeyPrefix    = "user:%d"
)

const (
	// HistoryTTL bounds staleness of the cached first history page.
	HistoryTTL = 2 * time.Minute
	// SourceTTL keeps repeated refreshes from hammering public APIs.
	SourceTTL = 1 * time.Minute
	UserTTL   = 5 * time.Minute
)

// HistoryKey is the cache key for a user's first page of snapshot history.
func HistoryKey(userID uint) string {
	return fmt.Sprintf(historyKeyPrefix, userID)
}

// SourceKey is the cache key for one provider's latest normalized sub-record.
func SourceKey(source string) string {
	return fmt.Sprintf(sourceKeyPrefix, source)
}

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateHistory(ctx context.Context, userID uint) {
	Invalidate(ctx, HistoryKey(userID))
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
