package cache

import (
	"context"
	"time"
)

// Store is a byte cache with per-entry TTL. A miss is (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "inspect:v1:"

// Key namespaces a cache key.
func Key(parts ...string) string {
	out := keyPrefix
	for i, p := range parts {
		if i > 0 {
			out += ":"
		}
		out += p
	}
	return out
}
