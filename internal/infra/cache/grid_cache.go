package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
	"github.com/BruksfildServices01/court-scheduler/internal/usecase/booking"
)

// GridCache keeps rendered public availability grids in redis, one key per
// complex and local date. Errors are logged and treated as misses.
type GridCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func NewGridCache(client *redis.Client, ttl time.Duration) *GridCache {
	return &GridCache{client: client, ttl: ttl}
}

func gridKey(complexID uint, date string) string {
	return fmt.Sprintf("grid:%d:%s", complexID, date)
}

func (c *GridCache) GetGrid(ctx context.Context, complexID uint, date string) (*booking.Grid, bool) {
	val, err := c.client.Get(ctx, gridKey(complexID, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint("complex_id", complexID).Msg("grid cache read failed")
		return nil, false
	}

	var g booking.Grid
	if err := json.Unmarshal(val, &g); err != nil {
		return nil, false
	}
	return &g, true
}

func (c *GridCache) SetGrid(ctx context.Context, g *booking.Grid) {
	data, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, gridKey(g.ComplexID, g.Date), data, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint("complex_id", g.ComplexID).Msg("grid cache write failed")
	}
}

// ======================================================
// Invalidation
// ======================================================

func (c *GridCache) Name() string {
	return "grid_cache"
}

// Handle drops the cached grid for the day a booking event touches.
func (c *GridCache) Handle(ctx context.Context, ev events.Event) error {
	if ev.ComplexID == 0 {
		return nil
	}
	date := ev.StartTime.In(timezone.Location(ev.Timezone)).Format("2006-01-02")
	return c.client.Del(ctx, gridKey(ev.ComplexID, date)).Err()
}

var (
	_ booking.GridCache = (*GridCache)(nil)
	_ events.Sink       = (*GridCache)(nil)
)
