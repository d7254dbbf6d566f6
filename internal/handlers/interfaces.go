package handlers

import (
	"context"
	"io"

	"github.com/vidtube/backend/internal/models"
)

// SessionService drives the login, refresh and logout flows.
type SessionService interface {
	Login(ctx context.Context, identifier, password string) (models.SessionTokens, models.PublicProfile, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
	Logout(ctx context.Context, userID string) error
}

// UserStore captures the persistence operations required by the user handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

// PasswordHasher hashes plaintext passwords at registration time.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	ListPublished(ctx context.Context) ([]models.Video, error)
	SetPublished(ctx context.Context, videoID string, published bool) error
	AddLike(ctx context.Context, videoID, userID string) error
	AddView(ctx context.Context, videoID, userID string) (bool, error)
}

// OwnerFinder confirms the uploading user exists.
type OwnerFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// ChannelResolver produces viewer-relative channel profiles.
type ChannelResolver interface {
	Profile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)
}

// HistoryService reads and appends per-user watch history.
type HistoryService interface {
	Resolve(ctx context.Context, userID string) ([]models.Video, error)
	Append(ctx context.Context, userID, videoID string) error
}

// MediaUploader stores uploaded media and returns its public URL.
type MediaUploader interface {
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}
