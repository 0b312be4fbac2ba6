package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"search-summarizer/internal/summary"
)

const defaultTTL = 15 * time.Minute

// SummaryCache stores summaries as JSON strings with a TTL.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

func (c *SummaryCache) Get(ctx context.Context, key string) (*summary.CachedSummary, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var entry summary.CachedSummary
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	if entry.Summary == nil {
		return nil, false, nil
	}
	if entry.Summary.KeyPoints == nil {
		entry.Summary.KeyPoints = []string{}
	}
	if entry.Summary.KeyEntities == nil {
		entry.Summary.KeyEntities = []string{}
	}
	return &entry, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, key string, entry *summary.CachedSummary) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}
