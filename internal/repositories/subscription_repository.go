package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// SubscriptionRepository provides the read-only aggregation queries over the
// subscription edge set. Subscription writes are out of scope; edges are
// created by seeds and future writers.
type SubscriptionRepository interface {
	ChannelStats(ctx context.Context, userID string) (models.ChannelStats, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}
