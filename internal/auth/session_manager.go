package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserStore captures the persistence operations the session manager needs.
// RotateRefreshToken must be atomic: the stored token is replaced only while
// it still equals current, so concurrent refreshes cannot both win.
type UserStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	SetRefreshToken(ctx context.Context, userID, token string) error
	RotateRefreshToken(ctx context.Context, userID, current, next string) error
}

// SessionManager orchestrates login, refresh and logout over a user's single
// persisted refresh token. Each user holds at most one live refresh token;
// login and refresh overwrite it, logout clears it, and any previously
// issued token fails the exact-match check from then on.
type SessionManager struct {
	users  UserStore
	hasher PasswordHasher
	issuer *TokenIssuer
}

// NewSessionManager constructs a session manager over the provided collaborators.
func NewSessionManager(users UserStore, hasher PasswordHasher, issuer *TokenIssuer) *SessionManager {
	if users == nil || issuer == nil {
		panic("auth: session manager requires a user store and token issuer")
	}
	return &SessionManager{users: users, hasher: hasher, issuer: issuer}
}

// Login verifies the credentials and starts a session, overwriting any
// previously stored refresh token. That overwrite is the rotation point that
// invalidates all earlier sessions for the account.
func (m *SessionManager) Login(ctx context.Context, identifier, password string) (models.SessionTokens, models.PublicProfile, error) {
	if identifier == "" {
		return models.SessionTokens{}, models.PublicProfile{}, apperrors.Validation("please provide all data", "username or email is required")
	}
	if password == "" {
		return models.SessionTokens{}, models.PublicProfile{}, apperrors.Validation("please provide all data", "password is required")
	}

	user, err := m.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.SessionTokens{}, models.PublicProfile{}, apperrors.NotFound("user does not exist")
		}
		return models.SessionTokens{}, models.PublicProfile{}, fmt.Errorf("login lookup: %w", err)
	}

	if !m.hasher.Check(password, user.Password) {
		return models.SessionTokens{}, models.PublicProfile{}, apperrors.Auth("invalid username/email or password")
	}

	tokens, err := m.issuer.IssuePair(user)
	if err != nil {
		return models.SessionTokens{}, models.PublicProfile{}, fmt.Errorf("issue session tokens: %w", err)
	}

	if err := m.users.SetRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return models.SessionTokens{}, models.PublicProfile{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return tokens, user.Profile(), nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the
// persisted token. Presenting a stale token, even one whose signature is
// still valid, fails the exact-match rotation and is rejected.
func (m *SessionManager) Refresh(ctx context.Context, presented string) (models.SessionTokens, error) {
	if presented == "" {
		return models.SessionTokens{}, apperrors.Validation("refresh token is required")
	}

	claims, err := m.issuer.VerifyRefreshToken(presented)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return models.SessionTokens{}, apperrors.Auth("refresh token expired")
		}
		return models.SessionTokens{}, apperrors.Auth("invalid refresh token")
	}

	user, err := m.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.SessionTokens{}, apperrors.NotFound("user does not exist")
		}
		return models.SessionTokens{}, fmt.Errorf("refresh lookup: %w", err)
	}

	// Fast-path rejection of rotated-out tokens; the conditional update
	// below remains the authoritative check under concurrency.
	if user.RefreshToken != presented {
		return models.SessionTokens{}, apperrors.Auth("refresh token mismatch")
	}

	tokens, err := m.issuer.IssuePair(user)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("issue session tokens: %w", err)
	}

	if err := m.users.RotateRefreshToken(ctx, user.ID, presented, tokens.RefreshToken); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.SessionTokens{}, apperrors.Auth("refresh token mismatch")
		}
		return models.SessionTokens{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	return tokens, nil
}

// Logout clears the persisted refresh token, invalidating every token issued
// before this call. Logging out an already-anonymous session is a no-op.
func (m *SessionManager) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.Validation("user id is required")
	}

	if err := m.users.SetRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("user does not exist")
		}
		return fmt.Errorf("clear refresh token: %w", err)
	}

	return nil
}
