package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore keeps one sorted set per key, scored by hit time in milliseconds,
// so every API replica shares the same window.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisStoreFromURL parses a redis:// URL and pings the server.
func NewRedisStoreFromURL(ctx context.Context, rawURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) Hit(ctx context.Context, key string, rule Rule, now time.Time) (Decision, error) {
	redisKey := redisKeyPrefix + key
	nowMS := now.UnixMilli()
	windowStart := now.Add(-rule.Window).UnixMilli()
	member := strconv.FormatInt(nowMS, 10) + "-" + uuid.NewString()

	var count *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowMS), Member: member})
		count = pipe.ZCard(ctx, redisKey)
		oldest = pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
		pipe.PExpire(ctx, redisKey, rule.Window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("record rate limit hit: %w", err)
	}

	total := int(count.Val())
	oldestAt := now
	if entries := oldest.Val(); len(entries) > 0 {
		oldestAt = time.UnixMilli(int64(entries[0].Score))
	}

	decision := decide(rule, total, oldestAt, now)
	if !decision.Allowed {
		// Rejected hits must not extend the window.
		if err := s.rdb.ZRem(ctx, redisKey, member).Err(); err != nil {
			return decision, fmt.Errorf("discard rejected hit: %w", err)
		}
	}
	return decision, nil
}
