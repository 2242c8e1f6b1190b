// Package cache keeps the computed blocked-date list of each tool in Redis.
//
// Entries hold the full sorted list for a tool; windowed requests are
// filtered by the caller. Each tool has a generation counter and entries are
// keyed by it. Every successful booking write bumps the generation, so a
// reader that loaded bookings before the write stores its list under a key
// nobody reads any more. The TTL bounds staleness after out-of-band writes
// and reclaims abandoned generations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "toolrent:blocked-dates:"

type BlockedDatesCache interface {
	// Get returns the cached dates for the tool's current generation. On a
	// miss the returned generation is the one a following Set must carry.
	Get(ctx context.Context, toolID string) (dates []string, generation int64, hit bool, err error)
	Set(ctx context.Context, toolID string, generation int64, dates []string) error
	Invalidate(ctx context.Context, toolID string) error
}

// Store is the subset of *redis.Client the cache uses.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type redisBlockedDatesCache struct {
	store  Store
	ttl    time.Duration
	prefix string
}

func NewRedisBlockedDatesCache(store Store, ttl time.Duration) BlockedDatesCache {
	return &redisBlockedDatesCache{store: store, ttl: ttl, prefix: DefaultKeyPrefix}
}

func (c *redisBlockedDatesCache) generationKey(toolID string) string {
	return c.prefix + "gen:" + toolID
}

func (c *redisBlockedDatesCache) key(toolID string, generation int64) string {
	return c.prefix + toolID + ":" + strconv.FormatInt(generation, 10)
}

func (c *redisBlockedDatesCache) generation(ctx context.Context, toolID string) (int64, error) {
	gen, err := c.store.Get(ctx, c.generationKey(toolID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation for %s: %w", toolID, err)
	}
	return gen, nil
}

func (c *redisBlockedDatesCache) Get(ctx context.Context, toolID string) ([]string, int64, bool, error) {
	gen, err := c.generation(ctx, toolID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.store.Get(ctx, c.key(toolID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to read blocked dates for %s: %w", toolID, err)
	}

	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return nil, gen, false, nil
	}
	return dates, gen, true, nil
}

func (c *redisBlockedDatesCache) Set(ctx context.Context, toolID string, generation int64, dates []string) error {
	if dates == nil {
		dates = []string{}
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.key(toolID, generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache blocked dates for %s: %w", toolID, err)
	}
	return nil
}

// Invalidate moves the tool to a new generation. Entries of older
// generations are never read again and expire with their TTL.
func (c *redisBlockedDatesCache) Invalidate(ctx context.Context, toolID string) error {
	if err := c.store.Incr(ctx, c.generationKey(toolID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate blocked dates for %s: %w", toolID, err)
	}
	return nil
}

// Noop never hits; used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]string, int64, bool, error) { return nil, 0, false, nil }

func (Noop) Set(context.Context, string, int64, []string) error { return nil }

func (Noop) Invalidate(context.Context, string) error { return nil }
