package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore is the part of the Redis client the lookup cache needs
type CacheStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SessionStore is the part of the Redis client wizard sessions need
type SessionStore interface {
	CacheStore
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}
