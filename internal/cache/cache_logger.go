package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

func PostViewKey(postID uint) string {
	return fmt.Sprintf("view:%d", postID)
}

// InvalidatePostCache drops the cached view of a post.
func InvalidatePostCache(ctx context.Context, cm *CacheManager, postID uint) {
	SafeDelete(ctx, cm.Post, PostViewKey(postID))
}
