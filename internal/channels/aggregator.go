// Package channels composes the derived relational views over users and
// subscriptions: who subscribes to whom, and how a channel looks to a
// particular viewer.
package channels

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserFinder resolves channel owners by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// SubscriptionReader answers the aggregation queries behind a channel profile.
type SubscriptionReader interface {
	ChannelStats(ctx context.Context, userID string) (models.ChannelStats, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// StatsCache holds recently computed per-channel subscription counts.
// Implementations may be lossy; a miss simply recomputes from the store.
type StatsCache interface {
	Get(ctx context.Context, channelID string) (models.ChannelStats, bool)
	Set(ctx context.Context, channelID string, stats models.ChannelStats)
}

// Aggregator composes read-only multi-join queries into response-shaped
// channel views. It never mutates the store.
type Aggregator struct {
	users UserFinder
	subs  SubscriptionReader
	stats StatsCache
}

// NewAggregator constructs an aggregator. The stats cache is optional; pass
// nil to recompute counts on every request.
func NewAggregator(users UserFinder, subs SubscriptionReader, stats StatsCache) *Aggregator {
	if users == nil || subs == nil {
		panic("channels: aggregator requires user and subscription readers")
	}
	return &Aggregator{users: users, subs: subs, stats: stats}
}

// Profile resolves the channel identified by username as seen by viewerID:
// the sanitized profile, its subscription counts, and whether the viewer is
// among the channel's subscribers. Counts may be served from the cache;
// isSubscribed is always computed live so a fresh subscription shows up
// immediately.
func (a *Aggregator) Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error) {
	if username == "" {
		return models.ChannelProfile{}, apperrors.Validation("channel username is required")
	}

	channel, err := a.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.ChannelProfile{}, apperrors.NotFound("channel does not exist")
		}
		return models.ChannelProfile{}, fmt.Errorf("find channel %q: %w", username, err)
	}

	stats, ok := a.cachedStats(ctx, channel.ID)
	if !ok {
		stats, err = a.subs.ChannelStats(ctx, channel.ID)
		if err != nil {
			return models.ChannelProfile{}, fmt.Errorf("aggregate channel stats: %w", err)
		}
		if a.stats != nil {
			a.stats.Set(ctx, channel.ID, stats)
		}
	}

	var subscribed bool
	if viewerID != "" {
		subscribed, err = a.subs.IsSubscribed(ctx, viewerID, channel.ID)
		if err != nil {
			return models.ChannelProfile{}, fmt.Errorf("check viewer subscription: %w", err)
		}
	}

	return models.ChannelProfile{
		PublicProfile: channel.Profile(),
		ChannelStats:  stats,
		IsSubscribed:  subscribed,
	}, nil
}

func (a *Aggregator) cachedStats(ctx context.Context, channelID string) (models.ChannelStats, bool) {
	if a.stats == nil {
		return models.ChannelStats{}, false
	}
	return a.stats.Get(ctx, channelID)
}
