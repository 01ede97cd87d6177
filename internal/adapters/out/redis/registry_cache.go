// Package redis caches kitchen notification routing in Redis.
// The cache is a read-through decorator over the database-backed registry:
// Redis being down degrades to uncached lookups, never to failures.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courierbridge/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

var ErrRegistryCacheIsInvalid = errors.New(
	"RegistryCache requires a redis client and a source registry",
)

// RegistryCache implements ports.KitchenRegistry with a Redis TTL cache in front
// of the database-backed source.
type RegistryCache struct {
	client *redis.Client
	source ports.KitchenRegistry
	ttl    time.Duration
}

// NewRegistryCache creates a read-through cache over source.
// A non-positive ttl falls back to the 5-minute default.
func NewRegistryCache(
	client *redis.Client,
	source ports.KitchenRegistry,
	ttl time.Duration,
) (*RegistryCache, error) {
	if client == nil || source == nil {
		return nil, ErrRegistryCacheIsInvalid
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RegistryCache{
		client: client,
		source: source,
		ttl:    ttl,
	}, nil
}

// StaffChatIDs returns the cached staff chats for the kitchen, reading
// through to the source on a miss and repopulating the cache best-effort.
func (c *RegistryCache) StaffChatIDs(ctx context.Context, kitchenID int64) ([]int64, error) {
	key := cacheKey(kitchenID)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		var chats []int64
		if json.Unmarshal([]byte(cached), &chats) == nil {
			return chats, nil
		}
	}

	chats, err := c.source.StaffChatIDs(ctx, kitchenID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(chats); err == nil {
		// Cache write failures only cost the next lookup a round trip.
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}

	return chats, nil
}

// Invalidate drops the cached routing for one kitchen.
func (c *RegistryCache) Invalidate(ctx context.Context, kitchenID int64) error {
	return c.client.Del(ctx, cacheKey(kitchenID)).Err()
}

func cacheKey(kitchenID int64) string {
	return fmt.Sprintf("kitchen:chats:%d", kitchenID)
}
