package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) FindByIdentifier(_ context.Context, identifier string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, userID, token string) error {
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

func (s *fakeUserStore) RotateRefreshToken(_ context.Context, userID, current, next string) error {
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

const testUserID = "0c7b9e1a-4c2d-4e61-9f2a-000000000001"

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	}
	return req.WithContext(logging.WithUserID(req.Context(), userID))
}

func TestUserHandlerRegister(t *testing.T) {
	store := newFakeUserStore()
	handler := UserHandler{Users: store, Hasher: auth.NewPasswordHasher(bcrypt.MinCost)}

	body, err := json.Marshal(registerRequest{
		Username: "Alice",
		Email:    "Alice@Example.com",
		Password: "password123",
		FullName: "Alice Example",
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool                 `json:"success"`
		Data    models.PublicProfile `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Username != "alice" || resp.Data.Email != "alice@example.com" {
		t.Fatalf("expected normalized identifiers, got %+v", resp.Data)
	}

	stored, err := store.FindByID(context.Background(), resp.Data.ID)
	if err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")) != nil {
		t.Fatal("stored password is not hashed")
	}
}

func TestUserHandlerRegisterDuplicate(t *testing.T) {
	store := newFakeUserStore()
	store.users[testUserID] = models.User{ID: testUserID, Username: "alice", Email: "alice@example.com"}
	handler := UserHandler{Users: store, Hasher: auth.NewPasswordHasher(bcrypt.MinCost)}

	body, _ := json.Marshal(registerRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
		FullName: "Alice Example",
	})

	rec := httptest.NewRecorder()
	handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status %d got %d", http.StatusConflict, rec.Code)
	}
}

func TestUserHandlerRegisterValidation(t *testing.T) {
	handler := UserHandler{Users: newFakeUserStore(), Hasher: auth.NewPasswordHasher(bcrypt.MinCost)}

	cases := []struct {
		name string
		req  registerRequest
	}{
		{"missing fields", registerRequest{Username: "alice"}},
		{"invalid email", registerRequest{Username: "alice", Email: "not-an-email", Password: "password123", FullName: "Alice"}},
		{"short password", registerRequest{Username: "alice", Email: "alice@example.com", Password: "short", FullName: "Alice"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.req)
			rec := httptest.NewRecorder()
			handler.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/register", bytes.NewReader(body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestUserHandlerList(t *testing.T) {
	store := newFakeUserStore()
	store.users[testUserID] = models.User{ID: testUserID, Username: "alice", Password: "secret-hash", RefreshToken: "secret-token"}
	handler := UserHandler{Users: store}

	rec := httptest.NewRecorder()
	handler.List(rec, authedRequest(http.MethodGet, "/api/v1/users", nil, testUserID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	if body := rec.Body.String(); bytes.Contains([]byte(body), []byte("secret")) {
		t.Fatalf("response leaked credentials: %s", body)
	}
}

func TestUserHandlerUpdate(t *testing.T) {
	store := newFakeUserStore()
	store.users[testUserID] = models.User{ID: testUserID, Username: "alice", FullName: "Alice"}
	handler := UserHandler{Users: store}

	body, _ := json.Marshal(updateUserRequest{FullName: "Alice Q. Example", Avatar: "https://cdn.example.com/a.png"})
	rec := httptest.NewRecorder()
	handler.Update(rec, authedRequest(http.MethodPatch, "/api/v1/users/update", body, testUserID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	stored, _ := store.FindByID(context.Background(), testUserID)
	if stored.FullName != "Alice Q. Example" || stored.AvatarURL != "https://cdn.example.com/a.png" {
		t.Fatalf("update not applied: %+v", stored)
	}
	if stored.Username != "alice" {
		t.Fatal("untouched fields must survive the update")
	}
}

func TestUserHandlerDeleteSelfOnly(t *testing.T) {
	otherID := "0c7b9e1a-4c2d-4e61-9f2a-000000000002"
	store := newFakeUserStore()
	store.users[testUserID] = models.User{ID: testUserID, Username: "alice"}
	store.users[otherID] = models.User{ID: otherID, Username: "bob"}
	handler := UserHandler{Users: store}

	req := authedRequest(http.MethodDelete, "/api/v1/users/"+otherID, nil, testUserID)
	req.SetPathValue("id", otherID)
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
	if _, err := store.FindByID(context.Background(), otherID); err != nil {
		t.Fatal("other user's account must survive")
	}

	req = authedRequest(http.MethodDelete, "/api/v1/users/"+testUserID, nil, testUserID)
	req.SetPathValue("id", testUserID)
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if _, err := store.FindByID(context.Background(), testUserID); err == nil {
		t.Fatal("account must be deleted")
	}
}
