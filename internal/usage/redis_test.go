package usage

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora-ai/fixora/internal/config"
)

func setupMiniredis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, s
}

func TestRedisStore_IncrementUpToLimit(t *testing.T) {
	rdb, _ := setupMiniredis(t)
	store := NewRedisStore(rdb)
	ctx := context.Background()
	key := Key{ClientID: "1.2.3.4", Day: "2024-01-01"}

	for i := 1; i <= 3; i++ {
		n, ok, err := store.IncrementIfBelow(ctx, key, 3)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i)
		assert.Equal(t, i, n)
	}

	n, ok, err := store.IncrementIfBelow(ctx, key, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, n)

	count, err := store.Count(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRedisStore_CountMissing(t *testing.T) {
	rdb, _ := setupMiniredis(t)
	store := NewRedisStore(rdb)

	n, err := store.Count(context.Background(), Key{ClientID: "nobody", Day: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRedisStore_SetsTTL(t *testing.T) {
	rdb, mr := setupMiniredis(t)
	store := NewRedisStore(rdb)
	key := Key{ClientID: "1.2.3.4", Day: "2024-01-01"}

	_, _, err := store.IncrementIfBelow(context.Background(), key, 3)
	require.NoError(t, err)

	assert.Equal(t, redisKeyTTL, mr.TTL(redisKey(key)))

	mr.FastForward(redisKeyTTL + time.Second)
	n, err := store.Count(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRedisStore_Sweep(t *testing.T) {
	rdb, _ := setupMiniredis(t)
	store := NewRedisStore(rdb)
	ctx := context.Background()

	for _, k := range []Key{
		{ClientID: "a", Day: "2024-01-01"},
		{ClientID: "b", Day: "2024-01-01"},
		{ClientID: "a", Day: "2024-01-02"},
	} {
		_, _, err := store.IncrementIfBelow(ctx, k, 3)
		require.NoError(t, err)
	}
	rdb.Set(ctx, "unrelated", "1", 0)

	removed, err := store.Sweep(ctx, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := store.Count(ctx, Key{ClientID: "a", Day: "2024-01-02"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	exists, err := rdb.Exists(ctx, "unrelated").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestRedisStore_ServiceDayIsolation(t *testing.T) {
	rdb, _ := setupMiniredis(t)
	day1, _ := time.Parse(time.RFC3339, "2024-01-01T09:00:00Z")
	now := day1
	svc := NewService(NewRedisStore(rdb), 3, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := svc.Increment(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Success)
	}

	now = day1.Add(24 * time.Hour)
	st, err := svc.Status(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Used)
}

func TestRedisStore_ErrorWhenDown(t *testing.T) {
	rdb, mr := setupMiniredis(t)
	store := NewRedisStore(rdb)
	mr.Close()

	_, _, err := store.IncrementIfBelow(context.Background(), Key{ClientID: "a", Day: "2024-01-01"}, 3)
	assert.Error(t, err)
	assert.Error(t, store.Ping(context.Background()))
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, "2024-01-02", dayOf("usage:10.0.0.1-2024-01-02"))
	assert.Equal(t, "2024-01-02", dayOf("usage:::1-2024-01-02"))
	assert.Equal(t, "", dayOf("usage:x"))
}

func TestOpenStore_Redis(t *testing.T) {
	_, mr := setupMiniredis(t)
	cfg := &config.Config{
		Usage: config.UsageConfig{Backend: config.BackendRedis},
		Redis: config.RedisConfig{Host: mr.Host(), Port: mustAtoi(t, mr.Port())},
	}

	store, closeFn, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	_, ok, err := store.IncrementIfBelow(context.Background(), Key{ClientID: "a", Day: "2024-01-01"}, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", mustGet(t, mr, "usage:a-2024-01-01"))
}

func TestOpenStore_MemoryAndUnknown(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), &config.Config{Usage: config.UsageConfig{Backend: config.BackendMemory}})
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &MemoryStore{}, store)

	_, _, err = OpenStore(context.Background(), &config.Config{Usage: config.UsageConfig{Backend: "dynamo"}})
	assert.Error(t, err)
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
