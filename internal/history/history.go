// Package history maintains each user's watch history: a duplicate-free
// sequence of video references in insertion order.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserFinder confirms the history owner exists before a resolution.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// VideoFinder confirms the appended video exists.
type VideoFinder interface {
	FindByID(ctx context.Context, id string) (models.Video, error)
}

// Store persists the history rows themselves.
type Store interface {
	Append(ctx context.Context, userID, videoID string) error
	ListVideos(ctx context.Context, userID string) ([]models.Video, error)
}

// Service validates and executes watch-history reads and appends.
type Service struct {
	users   UserFinder
	videos  VideoFinder
	entries Store
}

// NewService constructs the watch-history service.
func NewService(users UserFinder, videos VideoFinder, entries Store) *Service {
	if users == nil || videos == nil || entries == nil {
		panic("history: service requires user, video and history stores")
	}
	return &Service{users: users, videos: videos, entries: entries}
}

// Resolve joins the user's ordered history ids into full video records. A
// user with an empty history gets an empty slice, not an error; an unknown
// user is a not-found failure rather than an empty result.
func (s *Service) Resolve(ctx context.Context, userID string) ([]models.Video, error) {
	if uuid.Validate(userID) != nil {
		return nil, apperrors.Validation("user id is not in valid format")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("user does not exist")
		}
		return nil, fmt.Errorf("resolve history owner: %w", err)
	}

	videos, err := s.entries.ListVideos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve watch history: %w", err)
	}

	return videos, nil
}

// Append adds videoID to the user's history. The store-level add-if-absent
// keeps this race-safe: of two concurrent appends of the same video, one
// wins and the other observes the conflict.
func (s *Service) Append(ctx context.Context, userID, videoID string) error {
	if uuid.Validate(userID) != nil {
		return apperrors.Validation("user id is not in valid format")
	}
	if uuid.Validate(videoID) != nil {
		return apperrors.Validation("video id is not in valid format")
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("video does not exist")
		}
		return fmt.Errorf("check video exists: %w", err)
	}

	if err := s.entries.Append(ctx, userID, videoID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			return apperrors.Conflict("video already in watch history")
		case errors.Is(err, repositories.ErrNotFound):
			return apperrors.NotFound("user does not exist")
		default:
			return fmt.Errorf("append watch history: %w", err)
		}
	}

	return nil
}
