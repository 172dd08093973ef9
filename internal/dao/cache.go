package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultGameTimeTTL = 24 * time.Hour

// CachedStore caches game timestamps in Redis in front of another GameStore.
// A game's start time never changes once recorded, so only that lookup is cached.
// With a nil client every call goes straight to the wrapped store.
type CachedStore struct {
	GameStore
	client *redis.Client
	ttl    time.Duration
}

func NewCachedStore(store GameStore, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultGameTimeTTL
	}
	return &CachedStore{
		GameStore: store,
		client:    client,
		ttl:       ttl,
	}
}

func (c *CachedStore) GetGameTimestamp(ctx context.Context, gameID string) (time.Time, error) {
	if c.client == nil {
		return c.GameStore.GetGameTimestamp(ctx, gameID)
	}

	key := gameTimeKey(gameID)
	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if t, err := time.Parse(time.RFC3339Nano, cached); err == nil {
			return t.UTC(), nil
		}
		logrus.Warnf("Discarding malformed cached start time of game %s: %q", gameID, cached)
	case !errors.Is(err, redis.Nil):
		logrus.WithError(err).Warnf("Failed to read cached start time of game %s", gameID)
	}

	t, err := c.GameStore.GetGameTimestamp(ctx, gameID)
	if err != nil {
		return time.Time{}, err
	}

	if err := c.client.Set(ctx, key, t.UTC().Format(time.RFC3339Nano), c.ttl).Err(); err != nil {
		logrus.WithError(err).Warnf("Failed to cache start time of game %s", gameID)
	}
	return t, nil
}

func gameTimeKey(gameID string) string {
	return fmt.Sprintf("game:%s:start_time", gameID)
}
