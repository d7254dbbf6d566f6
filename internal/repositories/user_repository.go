package repositories

import (
	"context"

	"github.com/vidtube/backend/internal/models"
)

// UserRepository defines the data access contract for users.
//
// RotateRefreshToken is a compare-and-swap: the stored refresh token is
// replaced only while it still equals current. It returns ErrNotFound when
// the stored value has moved on, which callers treat as a stale token.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
	SetRefreshToken(ctx context.Context, userID, token string) error
	RotateRefreshToken(ctx context.Context, userID, current, next string) error
}
