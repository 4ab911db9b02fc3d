package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// KeyAdminSummary caches the core dashboard counts; member summaries are
// cached per user under MemberSummaryKey and expire by TTL alone.
const KeyAdminSummary = "dashboard:summary:admin"

// MemberSummaryKey returns the cache key for one member's dashboard summary.
func MemberSummaryKey(userID string) string {
	return "dashboard:summary:member:" + userID
}

const summaryTTL = 60 * time.Second

// Cache is a thin JSON cache over Redis. A nil client makes every method a
// no-op so tests and degraded deployments work without Redis.
type Cache struct {
	Rdb *redis.Client
}

// Get unmarshals a cached value into out; returns false on miss or error.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.Rdb == nil {
		return false
	}
	b, err := c.Rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// Set stores a value under key with the summary TTL. Failures are logged,
// never surfaced: the cache is advisory.
func (c *Cache) Set(ctx context.Context, key string, v interface{}) {
	if c == nil || c.Rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Rdb.Set(ctx, key, b, summaryTTL).Err(); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache set failed")
	}
}

// Invalidate drops the given keys. Called from the write side after
// registrations, attendance updates and announcement changes.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.Rdb == nil || len(keys) == 0 {
		return
	}
	if err := c.Rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("cache invalidate failed")
	}
}

// InvalidateAdminSummary drops the core dashboard summary after a write
// that changes its counts.
func (c *Cache) InvalidateAdminSummary(ctx context.Context) {
	c.Invalidate(ctx, KeyAdminSummary)
}

