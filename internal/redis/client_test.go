package redisdb

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-summarizer/internal/config"
	"search-summarizer/internal/summary"
)

func TestNewClient_BasicConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.Password = ""
	cfg.Redis.DB = 15

	client := NewClient(cfg)
	require.NotNil(t, client)
	opts := client.Options()
	assert.Equal(t, cfg.Redis.Addr, opts.Addr)
	assert.Equal(t, cfg.Redis.DB, opts.DB)
}

func TestNewClient_NoAddr(t *testing.T) {
	assert.Nil(t, NewClient(&config.Config{}))
}

// testRedis connects to a local Redis on DB 15 or skips the test.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := &config.Config{}
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.DB = 15
	rdb := NewClient(cfg)
	if err := Ping(context.Background(), rdb); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestSummaryCache_RoundTrip(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	cache := NewSummaryCache(rdb, time.Minute)
	key := "summary:test-roundtrip"
	defer rdb.Del(ctx, key)

	s := summary.NewSearchSummary()
	s.MainTopic = "Go"
	s.KeyPoints = []string{"fast"}
	require.NoError(t, cache.Set(ctx, key, &summary.CachedSummary{Source: summary.SourceDirect, Summary: s}))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, summary.SourceDirect, got.Source)
	assert.Equal(t, "Go", got.Summary.MainTopic)
	assert.NotNil(t, got.Summary.KeyEntities)

	ttl := rdb.TTL(ctx, key).Val()
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected ttl %v", ttl)
}

func TestSummaryCache_Miss(t *testing.T) {
	rdb := testRedis(t)
	_, ok, err := NewSummaryCache(rdb, 0).Get(context.Background(), "summary:does-not-exist")
	assert.NoError(t, err)
	assert.False(t, ok)
}
