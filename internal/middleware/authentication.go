package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
)

// AccessTokenCookie is the cookie carrying the short-lived access token.
const AccessTokenCookie = "accessToken"

// TokenVerifier validates access tokens and returns their claims.
type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.AccessClaims, error)
}

// Authenticate verifies the caller's access token, from the accessToken
// cookie or an Authorization bearer header, and attaches the subject id to
// the request context. Requests without a valid token are rejected before
// the wrapped handler runs.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				rejectUnauthenticated(w, "access token is required")
				return
			}

			claims, err := verifier.VerifyAccessToken(token)
			if err != nil {
				logging.FromContext(r.Context()).Warn("access token rejected", "error", err)
				rejectUnauthenticated(w, "invalid access token")
				return
			}

			ctx := logging.WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identify is the best-effort variant of Authenticate for endpoints that
// serve anonymous callers too. A valid token attaches the subject id to the
// context; a missing or invalid one leaves the request anonymous.
func Identify(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if claims, err := verifier.VerifyAccessToken(token); err == nil {
					r = r.WithContext(logging.WithUserID(r.Context(), claims.Subject))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func rejectUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
		"errors":  []string{},
	})
}
