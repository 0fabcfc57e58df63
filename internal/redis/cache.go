package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache stores JSON-encoded read projections of type T in Redis.
// A zero TTL keeps entries until they are explicitly invalidated, which is
// what the user view wants: the command side refreshes the entry on every
// mutation, so expiry adds nothing.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewViewCache[T any](client *goredis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns the cached projection, or (nil, false) on a miss. A corrupt
// entry counts as a miss; the caller falls back to the write store and will
// overwrite it.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var view T
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil, false
	}
	return &view, true
}

// Set writes a projection under key. Cache write failures are logged and
// dropped; the write store remains the source of truth.
func (c *ViewCache[T]) Set(ctx context.Context, key string, view *T) {
	raw, err := json.Marshal(view)
	if err != nil {
		log.Printf("view cache: marshal %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("view cache: set %s: %v", key, err)
	}
}

// Delete invalidates a cached projection.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("view cache: delete %s: %v", key, err)
	}
}
