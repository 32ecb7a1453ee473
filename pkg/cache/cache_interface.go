package cache

import (
	"context"
	"time"
)

// Cache is the contract for the caching layer.
// Implementations: Redis (production), no-op (tests).
type Cache interface {
	// Get loads cached data into dest.
	// found = false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
