package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/metrics"
)

// Version is the invalidation generation a Get observed. Slots computed
// after that Get are stored under it, so a result computed before an
// invalidation is never served afterwards.
type Version struct {
	Workshop int64
	Day      int64
	valid    bool
}

// Availability caches the free slots of a workshop day, keyed by the
// workshop-local date (YYYY-MM-DD). Failures degrade to cache misses.
//
// Callers take the Version from Get before reading the store and hand it
// back to Set. Invalidate must run after the write it reflects has committed.
type Availability interface {
	Get(ctx context.Context, workshopID uuid.UUID, date string) ([]time.Time, Version, bool)
	Set(ctx context.Context, workshopID uuid.UUID, date string, v Version, slots []time.Time)
	Invalidate(ctx context.Context, workshopID uuid.UUID, dates ...string)
	InvalidateWorkshop(ctx context.Context, workshopID uuid.UUID)
}

type Nop struct{}

func (Nop) Get(context.Context, uuid.UUID, string) ([]time.Time, Version, bool) {
	return nil, Version{}, false
}

func (Nop) Set(context.Context, uuid.UUID, string, Version, []time.Time) {}

func (Nop) Invalidate(context.Context, uuid.UUID, ...string) {}

func (Nop) InvalidateWorkshop(context.Context, uuid.UUID) {}

// generationTTL outlives every entry stored under a generation, so an
// expired counter restarting at zero cannot revive an old entry.
const generationTTL = 24 * time.Hour

type RedisAvailability struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisClient connects to url and pings it.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}

func NewRedisAvailability(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisAvailability {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisAvailability{rdb: rdb, ttl: ttl, logger: logger}
}

// Key is where the slots of date are stored for generation v.
func Key(workshopID uuid.UUID, date string, v Version) string {
	return fmt.Sprintf("availability:%s:%s:v%d.%d", workshopID, date, v.Workshop, v.Day)
}

func workshopGenerationKey(workshopID uuid.UUID) string {
	return fmt.Sprintf("availability:%s:gen", workshopID)
}

func dayGenerationKey(workshopID uuid.UUID, date string) string {
	return fmt.Sprintf("availability:%s:%s:gen", workshopID, date)
}

func parseGeneration(raw any) int64 {
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func (c *RedisAvailability) Get(ctx context.Context, workshopID uuid.UUID, date string) ([]time.Time, Version, bool) {
	gens, err := c.rdb.MGet(ctx, workshopGenerationKey(workshopID), dayGenerationKey(workshopID, date)).Result()
	if err != nil || len(gens) != 2 {
		c.logger.Warn("availability cache read failed", "workshop_id", workshopID, "date", date, "err", err)
		metrics.AvailabilityCacheLookups.WithLabelValues("miss").Inc()
		return nil, Version{}, false
	}

	v := Version{
		Workshop: parseGeneration(gens[0]),
		Day:      parseGeneration(gens[1]),
		valid:    true,
	}

	raw, err := c.rdb.Get(ctx, Key(workshopID, date, v)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("availability cache read failed", "workshop_id", workshopID, "date", date, "err", err)
		}
		metrics.AvailabilityCacheLookups.WithLabelValues("miss").Inc()
		return nil, v, false
	}

	var slots []time.Time
	if err := json.Unmarshal(raw, &slots); err != nil {
		metrics.AvailabilityCacheLookups.WithLabelValues("miss").Inc()
		return nil, v, false
	}

	metrics.AvailabilityCacheLookups.WithLabelValues("hit").Inc()
	return slots, v, true
}

// Set stores slots under v. Once an invalidation has moved the generation
// past v, nothing reads that key again and it simply expires.
func (c *RedisAvailability) Set(ctx context.Context, workshopID uuid.UUID, date string, v Version, slots []time.Time) {
	if !v.valid {
		return
	}
	if slots == nil {
		slots = []time.Time{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, Key(workshopID, date, v), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", "workshop_id", workshopID, "date", date, "err", err)
	}
}

func (c *RedisAvailability) Invalidate(ctx context.Context, workshopID uuid.UUID, dates ...string) {
	if len(dates) == 0 {
		return
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, dayGenerationKey(workshopID, d))
	}
	if err := c.bump(ctx, keys...); err != nil {
		c.logger.Warn("availability cache invalidation failed", "workshop_id", workshopID, "dates", dates, "err", err)
	}
}

func (c *RedisAvailability) InvalidateWorkshop(ctx context.Context, workshopID uuid.UUID) {
	if err := c.bump(ctx, workshopGenerationKey(workshopID)); err != nil {
		c.logger.Warn("availability cache invalidation failed", "workshop_id", workshopID, "err", err)
	}
}

func (c *RedisAvailability) bump(ctx context.Context, keys ...string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, k)
			pipe.Expire(ctx, k, generationTTL+c.ttl)
		}
		return nil
	})
	return err
}
