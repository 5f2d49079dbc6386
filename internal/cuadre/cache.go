package cuadre

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "cuadre:version"

// Cache holds aggregated weekly summaries in Redis. A version counter
// keys every entry; sync jobs bump it after writing new vendor rows so
// stale aggregations fall out without explicit deletes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Bump invalidates every cached week.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

// Fetch loads the cached summaries for a week start, or populates them
// with the loader. A nil cache degrades to calling the loader directly.
func (c *Cache) Fetch(ctx context.Context, weekStart string, loader func(context.Context) (*WeeklySummaries, error)) (*WeeklySummaries, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	ver, err := c.version(ctx)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("cuadre:weekly:%s:%d", weekStart, ver)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached WeeklySummaries
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		// A corrupt entry falls through to the loader.
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		return nil, err
	}
	return out, nil
}
