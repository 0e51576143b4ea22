package statistics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache stores computed statistics in redis. Each account has a version
// counter that ledger mutations bump, so stale entries are never read.
// A nil Cache or one without a client always calls the loader.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func versionKey(accountID uuid.UUID) string {
	return "wallet:stats:version:" + accountID.String()
}

func (c *Cache) version(ctx context.Context, accountID uuid.UUID) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(accountID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// Fetch returns the cached statistics for the account and period or computes
// them with loader. Concurrent misses for the same key share one load.
func (c *Cache) Fetch(ctx context.Context, accountID uuid.UUID, p Period, loader func(context.Context) (Statistics, error)) (Statistics, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	ver, err := c.version(ctx, accountID)
	if err != nil {
		return loader(ctx)
	}
	key := fmt.Sprintf("wallet:stats:%s:%d:%04d-%02d", accountID, ver, p.Year, p.Month)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached Statistics
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	}

	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		stats, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(stats); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		}
		return stats, nil
	})
	select {
	case <-ctx.Done():
		return Statistics{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Statistics{}, res.Err
		}
		return res.Val.(Statistics), nil
	}
}

// Invalidate makes every cached entry of the account unreachable.
func (c *Cache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(accountID)).Err()
}
