package channels

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

const statsKeyPrefix = "channel_stats:"

// RedisStatsCache is a StatsCache backed by Redis, for deployments running
// more than one API instance. Failures degrade to cache misses; the store
// remains the source of truth.
type RedisStatsCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewRedisStatsCache returns a StatsCache over the provided Redis client.
func NewRedisStatsCache(rdb goredis.Cmdable, ttl time.Duration) *RedisStatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisStatsCache{rdb: rdb, ttl: ttl}
}

// Get returns cached stats, treating any Redis error as a miss.
func (c *RedisStatsCache) Get(ctx context.Context, channelID string) (models.ChannelStats, bool) {
	data, err := c.rdb.Get(ctx, statsKeyPrefix+channelID).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logging.FromContext(ctx).Warn("channel stats cache read failed", "channelId", channelID, "error", err)
		}
		return models.ChannelStats{}, false
	}

	var stats models.ChannelStats
	if err := json.Unmarshal(data, &stats); err != nil {
		logging.FromContext(ctx).Warn("channel stats cache entry malformed", "channelId", channelID, "error", err)
		return models.ChannelStats{}, false
	}

	return stats, true
}

// Set stores stats best-effort; write failures are logged and ignored.
func (c *RedisStatsCache) Set(ctx context.Context, channelID string, stats models.ChannelStats) {
	encoded, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKeyPrefix+channelID, encoded, c.ttl).Err(); err != nil {
		logging.FromContext(ctx).Warn("channel stats cache write failed", "channelId", channelID, "error", err)
	}
}
