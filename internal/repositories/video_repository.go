package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// VideoRepository defines the data access contract for videos and their
// engagement sets. AddLike and AddView are atomic add-if-absent operations;
// the liked-by and viewed-by collections are sets, never multisets.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListPublished(ctx context.Context) ([]models.Video, error)
	SetPublished(ctx context.Context, videoID string, published bool) error
	AddLike(ctx context.Context, videoID, userID string) error
	AddView(ctx context.Context, videoID, userID string) (bool, error)
}
