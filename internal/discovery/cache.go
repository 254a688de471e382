// internal/discovery/cache.go

package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const feedCacheKeyPrefix = "discovery:feed:"

// FeedCache stores recently ranked feeds per requester
type FeedCache interface {
	Get(ctx context.Context, userID string) ([]*RankedCandidate, bool, error)
	Set(ctx context.Context, userID string, feed []*RankedCandidate) error
	Delete(ctx context.Context, userID string) error
}

type redisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedCache caches feeds in redis for ttl
func NewRedisFeedCache(client *redis.Client, ttl time.Duration) FeedCache {
	return &redisFeedCache{client: client, ttl: ttl}
}

func feedCacheKey(userID string) string {
	return feedCacheKeyPrefix + userID
}

func (c *redisFeedCache) Get(ctx context.Context, userID string) ([]*RankedCandidate, bool, error) {
	raw, err := c.client.Get(ctx, feedCacheKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached feed: %w", err)
	}

	var feed []*RankedCandidate
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached feed: %w", err)
	}
	if feed == nil {
		feed = []*RankedCandidate{}
	}
	return feed, true, nil
}

func (c *redisFeedCache) Set(ctx context.Context, userID string, feed []*RankedCandidate) error {
	raw, err := json.Marshal(feed)
	if err != nil {
		return fmt.Errorf("failed to encode feed: %w", err)
	}
	if err := c.client.Set(ctx, feedCacheKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache feed: %w", err)
	}
	return nil
}

func (c *redisFeedCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, feedCacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to drop cached feed: %w", err)
	}
	return nil
}
