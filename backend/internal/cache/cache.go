// Package cache keeps ranked match lists and announcement markers in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Tharunnagabramhagna/foundria/backend/internal/matching"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "foundira:"

	// AnnouncedTTL bounds how long a (target, candidate) announcement is remembered.
	AnnouncedTTL = 30 * 24 * time.Hour
)

// MatchCache stores ranked matches per target report.
type MatchCache interface {
	GetMatches(ctx context.Context, targetID string) ([]matching.MatchResult, bool, error)
	SetMatches(ctx context.Context, targetID string, results []matching.MatchResult, ttl time.Duration) error
	Invalidate(ctx context.Context, targetIDs ...string) error
	// MarkAnnounced records the pair and reports whether this call was the first.
	MarkAnnounced(ctx context.Context, targetID, candidateID string) (bool, error)
	// ClearAnnounced forgets the pair so a later call can announce it again.
	ClearAnnounced(ctx context.Context, targetID, candidateID string) error
	Ping(ctx context.Context) error
}

func matchesKey(targetID string) string {
	return keyPrefix + "matches:" + targetID
}

func announcedKey(targetID, candidateID string) string {
	return keyPrefix + "announced:" + targetID + ":" + candidateID
}

// RedisCache implements MatchCache on go-redis.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache parses redisURL and verifies the server answers.
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb}, nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) GetMatches(ctx context.Context, targetID string) ([]matching.MatchResult, bool, error) {
	data, err := c.rdb.Get(ctx, matchesKey(targetID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached matches: %w", err)
	}

	results := []matching.MatchResult{}
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("decode cached matches: %w", err)
	}
	return results, true, nil
}

func (c *RedisCache) SetMatches(ctx context.Context, targetID string, results []matching.MatchResult, ttl time.Duration) error {
	if results == nil {
		results = []matching.MatchResult{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode matches: %w", err)
	}
	if err := c.rdb.Set(ctx, matchesKey(targetID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set cached matches: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, targetIDs ...string) error {
	if len(targetIDs) == 0 {
		return nil
	}
	keys := make([]string, len(targetIDs))
	for i, id := range targetIDs {
		keys[i] = matchesKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate cached matches: %w", err)
	}
	return nil
}

func (c *RedisCache) MarkAnnounced(ctx context.Context, targetID, candidateID string) (bool, error) {
	first, err := c.rdb.SetNX(ctx, announcedKey(targetID, candidateID), time.Now().UTC().Format(time.RFC3339), AnnouncedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark announced: %w", err)
	}
	return first, nil
}

func (c *RedisCache) ClearAnnounced(ctx context.Context, targetID, candidateID string) error {
	if err := c.rdb.Del(ctx, announcedKey(targetID, candidateID)).Err(); err != nil {
		return fmt.Errorf("clear announced: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// NoopCache never hits. MarkAnnounced always reports a first announcement,
// leaving deduplication to the caller.
type NoopCache struct{}

func (NoopCache) GetMatches(context.Context, string) ([]matching.MatchResult, bool, error) {
	return nil, false, nil
}

func (NoopCache) SetMatches(context.Context, string, []matching.MatchResult, time.Duration) error {
	return nil
}

func (NoopCache) Invalidate(context.Context, ...string) error { return nil }

func (NoopCache) MarkAnnounced(context.Context, string, string) (bool, error) { return true, nil }

func (NoopCache) ClearAnnounced(context.Context, string, string) error { return nil }

func (NoopCache) Ping(context.Context) error { return nil }
