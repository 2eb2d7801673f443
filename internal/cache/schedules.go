// Package cache adds an optional Redis read-through layer in front of the
// schedule store. Schedules change rarely and are read on every booking
// request, so they are the one thing worth caching.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"stolik/internal/booking"
	"stolik/internal/models"
)

// ScheduleCache wraps a ScheduleSource with per-day-key Redis caching.
// A nil client or non-positive TTL disables caching entirely, so callers
// can wire it unconditionally.
type ScheduleCache struct {
	src   booking.ScheduleSource
	redis *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// NewScheduleCache creates a cache over src.
func NewScheduleCache(src booking.ScheduleSource, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *ScheduleCache {
	return &ScheduleCache{
		src:   src,
		redis: client,
		ttl:   ttl,
		log:   logger.With().Str("component", "schedule_cache").Logger(),
	}
}

// FindSchedulesByDay implements booking.ScheduleSource. Cache misses and
// Redis errors fall through to the underlying store.
func (c *ScheduleCache) FindSchedulesByDay(ctx context.Context, day string) ([]models.Schedule, error) {
	key := cacheKey(day)

	var cached []models.Schedule
	if c.readCache(ctx, key, &cached) {
		return cached, nil
	}

	schedules, err := c.src.FindSchedulesByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, schedules)
	return schedules, nil
}

// Invalidate drops the cached entry for a day key. Schedule mutations call
// this so the resolver never sees stale hours.
func (c *ScheduleCache) Invalidate(ctx context.Context, day string) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	if err := c.redis.Del(ctx, cacheKey(day)).Err(); err != nil {
		c.log.Warn().Err(err).Str("day", day).Msg("cache invalidation failed")
	}
}

func (c *ScheduleCache) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *ScheduleCache) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func cacheKey(day string) string {
	return "schedules:" + day
}
