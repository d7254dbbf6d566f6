package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/channels"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/history"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup releases resources not owned by the pool.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, func(context.Context) error, error) {
	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	subscriptions := repositories.NewPostgresSubscriptionRepository(pool)
	historyStore := repositories.NewPostgresHistoryRepository(pool)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	issuer := auth.NewTokenIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessions := auth.NewSessionManager(users, hasher, issuer)

	cleanup := func(context.Context) error { return nil }

	var statsCache channels.StatsCache
	if cfg.RedisURL != "" {
		opts, err := goredis.ParseURL(cfg.RedisURL)
		if err != nil {
			return handlers.Dependencies{}, nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := goredis.NewClient(opts)
		statsCache = channels.NewRedisStatsCache(client, cfg.ChannelStatsTTL)
		cleanup = func(context.Context) error { return client.Close() }
	} else {
		statsCache = channels.NewMemoryStatsCache(cfg.ChannelStatsTTL)
	}

	var media handlers.MediaUploader
	if cfg.ObjectStore.Bucket != "" {
		store, err := storage.NewMediaStore(ctx, cfg.ObjectStore)
		if err != nil {
			_ = cleanup(ctx)
			return handlers.Dependencies{}, nil, err
		}
		media = store
	}

	return handlers.Dependencies{
		Sessions: sessions,
		Users:    users,
		Hasher:   hasher,
		Videos:   videos,
		Channels: channels.NewAggregator(users, subscriptions, statsCache),
		History:  history.NewService(users, videos, historyStore),
		Media:    media,
		Tokens:   issuer,
	}, cleanup, nil
}
