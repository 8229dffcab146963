// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package label

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/constants"
)

// RedisCache stores the [Service.All] listing per namespace as a JSON blob.
//
// Entries expire after ttl even without invalidation, which bounds staleness
// when a content item is edited through a path that does not invalidate
// (e.g. a manual SQL fix).
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func cacheKey(namespace Namespace) string {
	return constants.RedisPrefixLabels + string(namespace)
}

func (cache *RedisCache) Get(ctx context.Context, namespace Namespace) ([]*Label, bool) {
	raw, err := cache.client.Get(ctx, cacheKey(namespace)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(ctx, "label_cache_read_failed",
				slog.String("namespace", string(namespace)), slog.Any("error", err))
		}
		return nil, false
	}

	var labels []*Label
	if err := json.Unmarshal(raw, &labels); err != nil {
		cache.logger.WarnContext(ctx, "label_cache_corrupt",
			slog.String("namespace", string(namespace)), slog.Any("error", err))
		return nil, false
	}
	return labels, true
}

func (cache *RedisCache) Set(ctx context.Context, namespace Namespace, labels []*Label) {
	raw, err := json.Marshal(labels)
	if err != nil {
		cache.logger.WarnContext(ctx, "label_cache_encode_failed", slog.Any("error", err))
		return
	}

	if err := cache.client.Set(ctx, cacheKey(namespace), raw, cache.ttl).Err(); err != nil {
		cache.logger.WarnContext(ctx, "label_cache_write_failed",
			slog.String("namespace", string(namespace)), slog.Any("error", err))
	}
}

func (cache *RedisCache) Invalidate(ctx context.Context, namespace Namespace) {
	if err := cache.client.Del(ctx, cacheKey(namespace)).Err(); err != nil {
		cache.logger.WarnContext(ctx, "label_cache_invalidate_failed",
			slog.String("namespace", string(namespace)), slog.Any("error", err))
	}
}
