package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

func newSessionManager(t *testing.T, users ...models.User) (*auth.SessionManager, *auth.InMemoryUserStore) {
	t.Helper()

	store := auth.NewInMemoryUserStore()
	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
	for _, user := range users {
		hashed, err := hasher.Hash(user.Password)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		user.Password = hashed
		store.Put(user)
	}

	issuer := auth.NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	return auth.NewSessionManager(store, hasher, issuer), store
}

func cookieValue(t *testing.T, rec *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			if !cookie.HttpOnly {
				t.Fatalf("cookie %s must be http-only", name)
			}
			return cookie.Value
		}
	}
	t.Fatalf("cookie %s not set", name)
	return ""
}

func TestAuthHandlerLogin(t *testing.T) {
	sessions, store := newSessionManager(t, models.User{
		ID:       "0c7b9e1a-4c2d-4e61-9f2a-000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	handler := AuthHandler{Sessions: sessions}

	body, err := json.Marshal(loginRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool          `json:"success"`
		Data    loginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success envelope")
	}
	if resp.Data.AccessToken == "" || resp.Data.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued, got %+v", resp.Data)
	}
	if resp.Data.User.Username != "alice" {
		t.Fatalf("expected sanitized profile, got %+v", resp.Data.User)
	}

	if got := cookieValue(t, rec, middleware.AccessTokenCookie); got != resp.Data.AccessToken {
		t.Fatal("access token cookie does not match response body")
	}
	if got := cookieValue(t, rec, RefreshTokenCookie); got != resp.Data.RefreshToken {
		t.Fatal("refresh token cookie does not match response body")
	}

	stored, err := store.FindByIdentifier(req.Context(), "alice")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.RefreshToken != resp.Data.RefreshToken {
		t.Fatal("refresh token was not persisted")
	}
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	sessions, _ := newSessionManager(t, models.User{
		ID:       "0c7b9e1a-4c2d-4e61-9f2a-000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	handler := AuthHandler{Sessions: sessions}

	body, _ := json.Marshal(loginRequest{Username: "alice", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if resp.Errors == nil {
		t.Fatal("errors list must be present, even when empty")
	}
}

func TestAuthHandlerLoginUnknownUser(t *testing.T) {
	sessions, _ := newSessionManager(t)
	handler := AuthHandler{Sessions: sessions}

	body, _ := json.Marshal(loginRequest{Email: "ghost@example.com", Password: "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAuthHandlerRefreshRotates(t *testing.T) {
	sessions, _ := newSessionManager(t, models.User{
		ID:       "0c7b9e1a-4c2d-4e61-9f2a-000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	handler := AuthHandler{Sessions: sessions}

	tokens, _, err := sessions.Login(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: tokens.RefreshToken})
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	rotated := cookieValue(t, rec, RefreshTokenCookie)
	if rotated == tokens.RefreshToken {
		t.Fatal("refresh must rotate the refresh token")
	}

	// The rotated-out token is dead from here on.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: RefreshTokenCookie, Value: tokens.RefreshToken})
	rec = httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected stale token to be rejected with 401, got %d", rec.Code)
	}
}

func TestAuthHandlerRefreshFromBody(t *testing.T) {
	sessions, _ := newSessionManager(t, models.User{
		ID:       "0c7b9e1a-4c2d-4e61-9f2a-000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	handler := AuthHandler{Sessions: sessions}

	tokens, _, err := sessions.Login(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	body, _ := json.Marshal(refreshRequest{RefreshToken: tokens.RefreshToken})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestAuthHandlerRefreshMissingToken(t *testing.T) {
	sessions, _ := newSessionManager(t)
	handler := AuthHandler{Sessions: sessions}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()

	handler.Refresh(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAuthHandlerLogout(t *testing.T) {
	sessions, store := newSessionManager(t, models.User{
		ID:       "0c7b9e1a-4c2d-4e61-9f2a-000000000001",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	handler := AuthHandler{Sessions: sessions}

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	tokens, _, err := sessions.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(logging.WithUserID(req.Context(), "0c7b9e1a-4c2d-4e61-9f2a-000000000001"))
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	if got := cookieValue(t, rec, middleware.AccessTokenCookie); got != "" {
		t.Fatal("access token cookie must be cleared")
	}
	if got := cookieValue(t, rec, RefreshTokenCookie); got != "" {
		t.Fatal("refresh token cookie must be cleared")
	}

	stored, err := store.FindByID(ctx, "0c7b9e1a-4c2d-4e61-9f2a-000000000001")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.RefreshToken != "" {
		t.Fatal("logout must clear the persisted refresh token")
	}

	if _, err := sessions.Refresh(ctx, tokens.RefreshToken); err == nil {
		t.Fatal("pre-logout refresh token must be invalid after logout")
	}
}
