package cache

import (
	"context"
	"time"
)

const (
	UserKeyPrefix = "user:"
	PostKeyPrefix = "post:"
)

const (
	UserTTL = 5 * time.Minute
	PostTTL = 30 * time.Minute
)

func UserKey(userID string) string {
	return UserKeyPrefix + userID
}

func PostKey(postID string) string {
	return PostKeyPrefix + postID
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
}
