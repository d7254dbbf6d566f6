package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// HistoryRepository persists per-user watch history. The history is a set in
// insertion order: Append is an atomic add-if-absent returning ErrConflict
// for duplicates, and ListVideos resolves the ordered ids into full videos.
type HistoryRepository interface {
	Append(ctx context.Context, userID, videoID string) error
	ListVideos(ctx context.Context, userID string) ([]models.Video, error)
}
