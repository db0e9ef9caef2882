package usage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "usage:"
	// Keys outlive their day so a late sweep never races a live counter.
	redisKeyTTL = 48 * time.Hour
)

// incrementScript compares and increments in one round trip.
// KEYS[1] = counter key, ARGV[1] = limit, ARGV[2] = ttl seconds.
var incrementScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
  return {current, 0}
end
current = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return {current, 1}
`)

// RedisStore shares counters across instances.
type RedisStore struct {
	rdb redis.Cmdable
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(key Key) string {
	return redisKeyPrefix + key.String()
}

func (s *RedisStore) Count(ctx context.Context, key Key) (int, error) {
	n, err := s.rdb.Get(ctx, redisKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting usage count: %w", err)
	}
	return n, nil
}

func (s *RedisStore) IncrementIfBelow(ctx context.Context, key Key, limit int) (int, bool, error) {
	res, err := incrementScript.Run(ctx, s.rdb, []string{redisKey(key)}, limit, int(redisKeyTTL.Seconds())).Int64Slice()
	if err != nil {
		return 0, false, fmt.Errorf("incrementing usage: %w", err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("incrementing usage: unexpected script reply %v", res)
	}
	return int(res[0]), res[1] == 1, nil
}

func (s *RedisStore) Sweep(ctx context.Context, today string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, redisKeyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scanning usage keys: %w", err)
		}

		var stale []string
		for _, k := range keys {
			if dayOf(k) != today {
				stale = append(stale, k)
			}
		}
		if len(stale) > 0 {
			n, err := s.rdb.Del(ctx, stale...).Result()
			if err != nil {
				return removed, fmt.Errorf("deleting stale usage keys: %w", err)
			}
			removed += int(n)
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// dayOf extracts the trailing YYYY-MM-DD from a counter key.
func dayOf(key string) string {
	key = strings.TrimPrefix(key, redisKeyPrefix)
	if len(key) < len(DayLayout) {
		return ""
	}
	return key[len(key)-len(DayLayout):]
}
