// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
)

// BackoffStore records transient per-instance crawl failures so a
// scheduled pass can skip an instance that is still cooling down.
type BackoffStore interface {
	IsBackingOff(ctx context.Context, host string) (bool, error)
	MarkBackingOff(ctx context.Context, host string, ttl time.Duration) error
}

// RedisBackoff implements BackoffStore with a namespaced, TTL-keyed marker
// per instance — the same set-with-expiry idiom the platform already uses
// for short-lived tokens, repurposed here for crawl cooldowns.
type RedisBackoff struct {
	client *redis.Client
}

// NewRedisBackoff wraps an already-connected Redis client.
func NewRedisBackoff(client *redis.Client) *RedisBackoff {
	return &RedisBackoff{client: client}
}

// IsBackingOff reports whether host's backoff marker is still set.
func (b *RedisBackoff) IsBackingOff(ctx context.Context, host string) (bool, error) {
	key := constants.RedisPrefixBackoff + host
	_, err := b.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("crawl: backoff lookup failed: %w", err)
	}
	return true, nil
}

// MarkBackingOff sets host's backoff marker, expiring after ttl.
func (b *RedisBackoff) MarkBackingOff(ctx context.Context, host string, ttl time.Duration) error {
	key := constants.RedisPrefixBackoff + host
	if err := b.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("crawl: backoff set failed: %w", err)
	}
	return nil
}
