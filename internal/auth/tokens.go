package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/models"
)

var (
	// ErrTokenExpired indicates the token's signature is valid but its
	// expiry has passed. Callers may prompt a refresh or re-login.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid indicates the token failed signature or claim
	// verification and must be rejected outright.
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessClaims carry the profile fields embedded in short-lived access tokens.
type AccessClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the subject id of the long-lived refresh token.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer creates and verifies the HMAC-signed access and refresh tokens.
// The two kinds are signed with independent secrets, so a refresh token can
// never pass access-token verification or vice versa.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenIssuer constructs an issuer from the configured secrets and TTLs.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssueAccessToken signs a short-lived token carrying the user's profile claims.
func (i *TokenIssuer) IssueAccessToken(user models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(i.accessTTL)

	claims := AccessClaims{
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	return signed, expires, nil
}

// IssueRefreshToken signs a long-lived token carrying only the subject id.
func (i *TokenIssuer) IssueRefreshToken(user models.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(i.refreshTTL)

	// The jti makes every refresh token unique even when two are minted
	// within the same second; rotation's exact-match comparison depends
	// on successive tokens never colliding.
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return signed, expires, nil
}

// IssuePair signs a fresh access and refresh token pair for the user.
func (i *TokenIssuer) IssuePair(user models.User) (models.SessionTokens, error) {
	access, accessExpires, err := i.IssueAccessToken(user)
	if err != nil {
		return models.SessionTokens{}, err
	}

	refresh, refreshExpires, err := i.IssueRefreshToken(user)
	if err != nil {
		return models.SessionTokens{}, err
	}

	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExpires,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

// VerifyAccessToken parses and validates an access token.
func (i *TokenIssuer) VerifyAccessToken(token string) (AccessClaims, error) {
	var claims AccessClaims
	if err := i.verify(token, &claims, i.accessSecret); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token.
func (i *TokenIssuer) VerifyRefreshToken(token string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := i.verify(token, &claims, i.refreshSecret); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func (i *TokenIssuer) verify(token string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}

	if !parsed.Valid {
		return ErrTokenInvalid
	}

	return nil
}
