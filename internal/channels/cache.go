package channels

import (
	"context"
	"sync"
	"time"

	"github.com/vidtube/backend/internal/models"
)

type cacheEntry struct {
	stats   models.ChannelStats
	expires time.Time
}

// MemoryStatsCache is a TTL-based in-memory StatsCache.
type MemoryStatsCache struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewMemoryStatsCache returns a StatsCache that keeps entries for the
// provided TTL.
func NewMemoryStatsCache(ttl time.Duration) *MemoryStatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &MemoryStatsCache{
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// Get returns cached stats when present and not yet expired.
func (c *MemoryStatsCache) Get(_ context.Context, channelID string) (models.ChannelStats, bool) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[channelID]
	c.mu.RUnlock()

	if !ok || now.After(entry.expires) {
		return models.ChannelStats{}, false
	}
	return entry.stats, true
}

// Set stores stats for the channel.
func (c *MemoryStatsCache) Set(_ context.Context, channelID string, stats models.ChannelStats) {
	c.mu.Lock()
	c.items[channelID] = cacheEntry{stats: stats, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
