package auth

import (
	"context"
	"sync"

	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// NewInMemoryUserStore returns a UserStore backed by an in-memory map.
func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]models.User)}
}

// InMemoryUserStore implements UserStore for tests and local development.
// Its rotation honours the same compare-and-swap contract as the SQL store.
type InMemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

// Put inserts or replaces a user record.
func (s *InMemoryUserStore) Put(user models.User) {
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
}

// FindByIdentifier retrieves a user by username or email.
func (s *InMemoryUserStore) FindByIdentifier(_ context.Context, identifier string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

// FindByID retrieves a user by id.
func (s *InMemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

// SetRefreshToken unconditionally overwrites the stored refresh token.
func (s *InMemoryUserStore) SetRefreshToken(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	s.users[userID] = user
	return nil
}

// RotateRefreshToken replaces the stored token only while it still equals
// current, mirroring the conditional UPDATE of the SQL store.
func (s *InMemoryUserStore) RotateRefreshToken(_ context.Context, userID, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok || user.RefreshToken != current {
		return repositories.ErrNotFound
	}
	user.RefreshToken = next
	s.users[userID] = user
	return nil
}
