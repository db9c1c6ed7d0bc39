package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

// WeekCache stores rendered week views. Entries are never deleted one by one:
// every coach has a version counter that is part of the key, and bumping it
// orphans all of that coach's entries until their TTL runs out.
type WeekCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func New(client redis.UniversalClient, ttl time.Duration) *WeekCache {
	return &WeekCache{client: client, ttl: ttl}
}

func versionKey(coachID string) string {
	return fmt.Sprintf("weekver:%s", coachID)
}

func entryKey(coachID string, version int64, start, end time.Time) string {
	return fmt.Sprintf("week:%s:v%d:%d:%d", coachID, version, start.Unix(), end.Unix())
}

// Key resolves the current entry key for a week view.
func (c *WeekCache) Key(ctx context.Context, coachID string, start, end time.Time) (string, error) {
	const op = "cache.WeekCache.Key"

	version, err := c.client.Get(ctx, versionKey(coachID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return entryKey(coachID, version, start, end), nil
}

func (c *WeekCache) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "cache.WeekCache.Get"

	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

func (c *WeekCache) Set(ctx context.Context, key string, payload []byte) error {
	const op = "cache.WeekCache.Set"

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *WeekCache) Invalidate(ctx context.Context, coachID string) error {
	const op = "cache.WeekCache.Invalidate"

	if err := c.client.Incr(ctx, versionKey(coachID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
