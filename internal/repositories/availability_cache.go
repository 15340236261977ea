package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"drivaBack/internal/models"
)

// AvailabilityCache keeps the busy date ranges of a car in Redis so the
// calendar endpoint does not hit MySQL on every read. Entries expire on
// their own; booking writes invalidate eagerly.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func calendarKey(carID int) string {
	return fmt.Sprintf("car:%d:busy", carID)
}

func unreadKey(userID int) string {
	return fmt.Sprintf("user:%d:unread", userID)
}

// GetRanges returns the cached calendar, or models.ErrNoRecord on a miss.
func (c *AvailabilityCache) GetRanges(ctx context.Context, carID int) ([]models.DateRange, error) {
	data, err := c.rdb.Get(ctx, calendarKey(carID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	var ranges []models.DateRange
	if err := json.Unmarshal(data, &ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

func (c *AvailabilityCache) SetRanges(ctx context.Context, carID int, ranges []models.DateRange) error {
	data, err := json.Marshal(ranges)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, calendarKey(carID), data, c.ttl).Err()
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, carID int) error {
	return c.rdb.Del(ctx, calendarKey(carID)).Err()
}

// BumpUnread increments the recipient's unread-notification counter.
func (c *AvailabilityCache) BumpUnread(ctx context.Context, userID int) error {
	return c.rdb.Incr(ctx, unreadKey(userID)).Err()
}

// ResetUnread drops the counter; the next read falls back to MySQL.
func (c *AvailabilityCache) ResetUnread(ctx context.Context, userID int) error {
	return c.rdb.Del(ctx, unreadKey(userID)).Err()
}

// GetUnread returns the cached counter, or models.ErrNoRecord on a miss.
func (c *AvailabilityCache) GetUnread(ctx context.Context, userID int) (int, error) {
	n, err := c.rdb.Get(ctx, unreadKey(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, models.ErrNoRecord
	}
	return n, err
}

// SetUnread primes the counter after a MySQL count.
func (c *AvailabilityCache) SetUnread(ctx context.Context, userID, count int) error {
	return c.rdb.Set(ctx, unreadKey(userID), count, c.ttl).Err()
}
