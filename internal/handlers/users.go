package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// UserHandler implements account management endpoints.
type UserHandler struct {
	Users   UserStore
	Hasher  PasswordHasher
	Media   MediaUploader
	NowFunc func() time.Time
}

// Register handles POST /api/v1/users/register requests. The body may be
// JSON, or multipart form data carrying optional avatar and coverImage files.
func (h UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil || h.Hasher == nil {
		logger.Error("registration dependencies unavailable", "hasUsers", h.Users != nil, "hasHasher", h.Hasher != nil)
		respondError(ctx, w, apperrors.Server("registration services unavailable"))
		return
	}

	req, err := h.decodeRegistration(r)
	if err != nil {
		logger.Warn("invalid registration payload", "error", err)
		respondError(ctx, w, err)
		return
	}

	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		logger.Warn("registration missing fields", "username", req.Username, "email", req.Email)
		respondError(ctx, w, apperrors.Validation("please provide all data",
			"username, email, password and fullName are required"))
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		logger.Warn("registration invalid email", "email", req.Email, "error", err)
		respondError(ctx, w, apperrors.Validation("invalid email address"))
		return
	}

	if len(req.Password) < 8 {
		logger.Warn("registration password too short", "username", req.Username)
		respondError(ctx, w, apperrors.Validation("password must be at least 8 characters"))
		return
	}

	hashed, err := h.Hasher.Hash(req.Password)
	if err != nil {
		logger.Error("failed to hash password", "error", err)
		respondError(ctx, w, apperrors.Server("failed to secure password"))
		return
	}

	now := h.now()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      req.Username,
		Email:         req.Email,
		Password:      hashed,
		FullName:      req.FullName,
		AvatarURL:     req.Avatar,
		CoverImageURL: req.CoverImage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Warn("registration conflict", "username", req.Username, "email", req.Email)
			respondError(ctx, w, apperrors.Conflict("user with email or username already exists"))
			return
		}
		logger.Error("failed to create user", "error", err, "username", req.Username)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, "user registered successfully", user.Profile())
}

// List handles GET /api/v1/users requests.
func (h UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondError(ctx, w, apperrors.Server("user services unavailable"))
		return
	}

	users, err := h.Users.List(ctx)
	if err != nil {
		logger.Error("failed to list users", "error", err)
		respondError(ctx, w, err)
		return
	}

	profiles := make([]models.PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}

	respondData(ctx, w, http.StatusOK, "users fetched successfully", profiles)
}

// Update handles PATCH /api/v1/users/update requests for the authenticated
// user. The body may be JSON, or multipart form data with avatar and
// coverImage file parts replacing the stored URLs.
func (h UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondError(ctx, w, apperrors.Server("user services unavailable"))
		return
	}

	userID := logging.UserIDFromContext(ctx)
	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperrors.NotFound("user does not exist"))
			return
		}
		logger.Error("failed to load user for update", "error", err, "userId", userID)
		respondError(ctx, w, err)
		return
	}

	req, err := h.decodeProfileUpdate(r)
	if err != nil {
		logger.Warn("invalid update payload", "error", err, "userId", userID)
		respondError(ctx, w, err)
		return
	}

	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Avatar != "" {
		user.AvatarURL = req.Avatar
	}
	if req.CoverImage != "" {
		user.CoverImageURL = req.CoverImage
	}
	user.UpdatedAt = h.now()

	if err := h.Users.UpdateProfile(ctx, user); err != nil {
		logger.Error("failed to update user", "error", err, "userId", userID)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "user updated successfully", user.Profile())
}

// Delete handles DELETE /api/v1/users/{id} requests. Users may only delete
// their own account.
func (h UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Users == nil {
		logger.Error("user store unavailable")
		respondError(ctx, w, apperrors.Server("user services unavailable"))
		return
	}

	targetID := r.PathValue("id")
	if uuid.Validate(targetID) != nil {
		respondError(ctx, w, apperrors.Validation("user id is not in valid format"))
		return
	}

	if targetID != logging.UserIDFromContext(ctx) {
		logger.Warn("cross-account delete rejected", "target", targetID)
		respondError(ctx, w, apperrors.Auth("cannot delete another user's account"))
		return
	}

	if err := h.Users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperrors.NotFound("user does not exist"))
			return
		}
		logger.Error("failed to delete user", "error", err, "userId", targetID)
		respondError(ctx, w, err)
		return
	}

	clearSessionCookies(w)
	respondData(ctx, w, http.StatusOK, "user deleted successfully", struct{}{})
}

func (h UserHandler) decodeRegistration(r *http.Request) (registerRequest, error) {
	var req registerRequest

	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return registerRequest{}, apperrors.Validation("invalid request body")
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return registerRequest{}, apperrors.Validation("invalid multipart form")
	}

	req.Username = r.FormValue("username")
	req.Email = r.FormValue("email")
	req.Password = r.FormValue("password")
	req.FullName = r.FormValue("fullName")

	avatar, err := saveFormFile(r.Context(), h.Media, r, "avatar", "avatars")
	if err != nil {
		return registerRequest{}, err
	}
	cover, err := saveFormFile(r.Context(), h.Media, r, "coverImage", "covers")
	if err != nil {
		return registerRequest{}, err
	}
	req.Avatar = avatar
	req.CoverImage = cover

	return req, nil
}

func (h UserHandler) decodeProfileUpdate(r *http.Request) (updateUserRequest, error) {
	var req updateUserRequest

	if !isMultipart(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return updateUserRequest{}, apperrors.Validation("invalid request body")
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return updateUserRequest{}, apperrors.Validation("invalid multipart form")
	}

	req.FullName = r.FormValue("fullName")

	avatar, err := saveFormFile(r.Context(), h.Media, r, "avatar", "avatars")
	if err != nil {
		return updateUserRequest{}, err
	}
	cover, err := saveFormFile(r.Context(), h.Media, r, "coverImage", "covers")
	if err != nil {
		return updateUserRequest{}, err
	}
	req.Avatar = avatar
	req.CoverImage = cover

	return req, nil
}

func (h UserHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type registerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"fullName"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
}

type updateUserRequest struct {
	FullName   string `json:"fullName"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
}
