package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/models"
)

// RefreshTokenCookie is the cookie carrying the long-lived refresh token.
const RefreshTokenCookie = "refreshToken"

// AuthHandler implements the session lifecycle endpoints.
type AuthHandler struct {
	Sessions SessionService
}

// Login handles POST /api/v1/auth/login requests.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session service unavailable")
		respondError(ctx, w, apperrors.Server("authentication services unavailable"))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login payload", "error", err)
		respondError(ctx, w, apperrors.Validation("invalid request body"))
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Email))
	}

	tokens, profile, err := h.Sessions.Login(ctx, identifier, req.Password)
	if err != nil {
		logger.Warn("login rejected", "identifier", identifier, "error", err)
		respondError(ctx, w, err)
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusOK, "user logged in successfully", loginResponse{
		User:         profile,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Refresh handles POST /api/v1/auth/refresh requests. The presented token is
// read from the refreshToken cookie, falling back to the request body.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session service unavailable")
		respondError(ctx, w, apperrors.Server("authentication services unavailable"))
		return
	}

	presented := ""
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			presented = strings.TrimSpace(req.RefreshToken)
		}
	}

	tokens, err := h.Sessions.Refresh(ctx, presented)
	if err != nil {
		logger.Warn("refresh rejected", "error", err)
		respondError(ctx, w, err)
		return
	}

	setSessionCookies(w, tokens)
	respondData(ctx, w, http.StatusCreated, "access token refreshed", refreshResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout handles POST /api/v1/auth/logout requests. It requires the auth
// middleware to have resolved the caller's identity.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Sessions == nil {
		logger.Error("session service unavailable")
		respondError(ctx, w, apperrors.Server("authentication services unavailable"))
		return
	}

	userID := logging.UserIDFromContext(ctx)
	if err := h.Sessions.Logout(ctx, userID); err != nil {
		logger.Warn("logout failed", "userId", userID, "error", err)
		respondError(ctx, w, err)
		return
	}

	clearSessionCookies(w)
	respondData(ctx, w, http.StatusOK, "user logged out", struct{}{})
}

func setSessionCookies(w http.ResponseWriter, tokens models.SessionTokens) {
	http.SetCookie(w, sessionCookie(middleware.AccessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt))
	http.SetCookie(w, sessionCookie(RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt))
}

func clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, sessionCookie(middleware.AccessTokenCookie, "", time.Unix(0, 0)))
	http.SetCookie(w, sessionCookie(RefreshTokenCookie, "", time.Unix(0, 0)))
}

func sessionCookie(name, value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	User         models.PublicProfile `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
