package repositories

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresSubscriptionRepository answers aggregation queries over the
// subscriptions edge set.
type PostgresSubscriptionRepository struct {
	pool db.Pool
}

// NewPostgresSubscriptionRepository constructs a subscription repository backed by PostgreSQL.
func NewPostgresSubscriptionRepository(pool db.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// ChannelStats counts the edges pointing at the user (subscribers) and the
// edges leaving the user (channels they subscribe to) in one round trip.
func (r *PostgresSubscriptionRepository) ChannelStats(ctx context.Context, userID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1),
            (SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1)
    `, userID)

	var stats models.ChannelStats
	if err := row.Scan(&stats.TotalSubscribers, &stats.TotalSubscribedTo); err != nil {
		return models.ChannelStats{}, fmt.Errorf("count subscriptions: %w", err)
	}

	return stats, nil
}

// IsSubscribed reports whether subscriberID has an edge to channelID.
func (r *PostgresSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM subscriptions
            WHERE subscriber_id = $1 AND channel_id = $2
        )
    `, subscriberID, channelID)

	var subscribed bool
	if err := row.Scan(&subscribed); err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}

	return subscribed, nil
}

var _ SubscriptionRepository = (*PostgresSubscriptionRepository)(nil)
