package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresHistoryRepository persists per-user watch history.
type PostgresHistoryRepository struct {
	pool db.Pool
}

// NewPostgresHistoryRepository constructs a history repository backed by PostgreSQL.
func NewPostgresHistoryRepository(pool db.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{pool: pool}
}

// Append adds videoID to the user's history. The composite primary key makes
// this an atomic add-if-absent: a concurrent duplicate loses with ErrConflict
// instead of producing a second row.
func (r *PostgresHistoryRepository) Append(ctx context.Context, userID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (user_id, video_id)
        VALUES ($1, $2)
    `, userID, videoID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert watch history entry: %w", err)
	}

	return nil
}

// ListVideos resolves the user's history into full video records in
// insertion order. An empty history yields an empty slice.
func (r *PostgresHistoryRepository) ListVideos(ctx context.Context, userID string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT v.id, v.owner_id, v.video_url, v.thumbnail_url, v.title, v.description,
               v.duration_seconds, v.views, v.likes, v.is_published, v.created_at, v.updated_at
        FROM watch_history wh
        JOIN videos v ON v.id = wh.video_id
        WHERE wh.user_id = $1
        ORDER BY wh.position
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	videos := make([]models.Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watch history video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return videos, nil
}

var _ HistoryRepository = (*PostgresHistoryRepository)(nil)
