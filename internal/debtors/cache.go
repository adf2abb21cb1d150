package debtors

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "debtors:station:"

// Cache keeps per-station debtor lists in Redis so repeated lookups during a
// reconciliation sitting do not hammer the database. Concurrent fills for
// the same station collapse into one load.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// StationList loads the cached debtor list or populates it via loader.
func (c *Cache) StationList(ctx context.Context, stationID int64, loader func(context.Context) ([]Debtor, error)) ([]Debtor, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key := cacheKeyPrefix + strconv.FormatInt(stationID, 10)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var debtors []Debtor
		if err := json.Unmarshal(payload, &debtors); err == nil {
			return debtors, nil
		}
		// Fall through and refill on a corrupt entry.
	} else if err != redis.Nil {
		return nil, err
	}
	value, err, _ := c.group.Do(key, func() (any, error) {
		debtors, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(debtors)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			return nil, err
		}
		return debtors, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]Debtor), nil
}

// Invalidate drops the cached list after a mutation.
func (c *Cache) Invalidate(ctx context.Context, stationID int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	key := cacheKeyPrefix + strconv.FormatInt(stationID, 10)
	return c.client.Del(ctx, key).Err()
}
