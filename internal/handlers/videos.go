package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// VideoHandler implements the video catalog and engagement endpoints.
type VideoHandler struct {
	Videos  VideoStore
	Users   OwnerFinder
	Media   MediaUploader
	NowFunc func() time.Time
}

// Upload handles POST /api/v1/videos requests. The multipart body carries the
// title, description and duration fields plus videoFile and thumbnail parts;
// the owner is the authenticated caller.
func (h VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil || h.Users == nil {
		logger.Error("video dependencies unavailable", "hasVideos", h.Videos != nil, "hasUsers", h.Users != nil)
		respondError(ctx, w, apperrors.Server("video services unavailable"))
		return
	}

	ownerID := logging.UserIDFromContext(ctx)
	if uuid.Validate(ownerID) != nil {
		respondError(ctx, w, apperrors.Validation("owner id is not in valid format"))
		return
	}

	if _, err := h.Users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperrors.NotFound("owner does not exist"))
			return
		}
		logger.Error("failed to resolve uploader", "error", err, "userId", ownerID)
		respondError(ctx, w, err)
		return
	}

	if !isMultipart(r) {
		respondError(ctx, w, apperrors.Validation("multipart form data is required"))
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid upload form", "error", err)
		respondError(ctx, w, apperrors.Validation("invalid multipart form"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	if title == "" || description == "" {
		respondError(ctx, w, apperrors.Validation("please provide all data", "title and description are required"))
		return
	}

	duration, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("duration")), 10, 64)
	if err != nil || duration < 0 {
		respondError(ctx, w, apperrors.Validation("duration must be a non-negative integer"))
		return
	}

	videoURL, err := saveFormFile(ctx, h.Media, r, "videoFile", "videos")
	if err != nil {
		logger.Error("video upload failed", "error", err)
		respondError(ctx, w, err)
		return
	}
	if videoURL == "" {
		respondError(ctx, w, apperrors.Validation("videoFile is required"))
		return
	}

	thumbnailURL, err := saveFormFile(ctx, h.Media, r, "thumbnail", "thumbnails")
	if err != nil {
		logger.Error("thumbnail upload failed", "error", err)
		respondError(ctx, w, err)
		return
	}

	now := h.now()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Title:        title,
		Description:  description,
		Duration:     duration,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("failed to create video", "error", err, "videoId", video.ID)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusCreated, "video uploaded successfully", video)
}

// List handles GET /api/v1/videos requests. An empty catalog is a successful
// empty list, not an error.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Videos == nil {
		logging.FromContext(ctx).Error("video store unavailable")
		respondError(ctx, w, apperrors.Server("video services unavailable"))
		return
	}

	videos, err := h.Videos.ListPublished(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list videos", "error", err)
		respondError(ctx, w, err)
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}

	respondData(ctx, w, http.StatusOK, "videos fetched successfully", videos)
}

// Get handles GET /api/v1/videos/{id} requests.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.Videos == nil {
		logging.FromContext(ctx).Error("video store unavailable")
		respondError(ctx, w, apperrors.Server("video services unavailable"))
		return
	}

	videoID := r.PathValue("id")
	if uuid.Validate(videoID) != nil {
		respondError(ctx, w, apperrors.Validation("video id is not in valid format"))
		return
	}

	video, err := h.Videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperrors.NotFound("video does not exist"))
			return
		}
		logging.FromContext(ctx).Error("failed to fetch video", "error", err, "videoId", videoID)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "video fetched successfully", video)
}

// ChangePublishStatus handles PATCH /api/v1/videos/publish requests. Only the
// video's owner may change its publish state.
func (h VideoHandler) ChangePublishStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondError(ctx, w, apperrors.Server("video services unavailable"))
		return
	}

	var req publishStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid publish payload", "error", err)
		respondError(ctx, w, apperrors.Validation("invalid request body"))
		return
	}

	if uuid.Validate(req.VideoID) != nil {
		respondError(ctx, w, apperrors.Validation("video id is not in valid format"))
		return
	}

	video, err := h.Videos.FindByID(ctx, req.VideoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperrors.NotFound("video does not exist"))
			return
		}
		logger.Error("failed to fetch video", "error", err, "videoId", req.VideoID)
		respondError(ctx, w, err)
		return
	}

	if video.OwnerID != logging.UserIDFromContext(ctx) {
		logger.Warn("publish change by non-owner rejected", "videoId", video.ID)
		respondError(ctx, w, apperrors.Auth("only the owner can change publish status"))
		return
	}

	if err := h.Videos.SetPublished(ctx, video.ID, req.IsPublished); err != nil {
		logger.Error("failed to change publish status", "error", err, "videoId", video.ID)
		respondError(ctx, w, err)
		return
	}

	video.IsPublished = req.IsPublished
	respondData(ctx, w, http.StatusOK, "publish status updated", video)
}

// Like handles POST /api/v1/videos/like requests. Likes are a set; a repeat
// like is a conflict.
func (h VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondError(ctx, w, apperrors.Server("video services unavailable"))
		return
	}

	videoID, err := decodeVideoRef(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	userID := logging.UserIDFromContext(ctx)
	if err := h.Videos.AddLike(ctx, videoID, userID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrConflict):
			respondError(ctx, w, apperrors.Conflict("video already liked"))
		case errors.Is(err, repositories.ErrNotFound):
			respondError(ctx, w, apperrors.NotFound("video does not exist"))
		default:
			logger.Error("failed to like video", "error", err, "videoId", videoID)
			respondError(ctx, w, err)
		}
		return
	}

	respondData(ctx, w, http.StatusOK, "video liked", struct{}{})
}

// View handles POST /api/v1/videos/view requests. Only the first view per
// user bumps the counter; repeat views are successful no-ops.
func (h VideoHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Videos == nil {
		logger.Error("video store unavailable")
		respondError(ctx, w, apperrors.Server("video services unavailable"))
		return
	}

	videoID, err := decodeVideoRef(r)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	userID := logging.UserIDFromContext(ctx)
	counted, err := h.Videos.AddView(ctx, videoID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, apperrors.NotFound("video does not exist"))
			return
		}
		logger.Error("failed to record view", "error", err, "videoId", videoID)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "view recorded", viewResponse{Counted: counted})
}

func decodeVideoRef(r *http.Request) (string, error) {
	var req videoRefRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", apperrors.Validation("invalid request body")
	}
	if uuid.Validate(req.VideoID) != nil {
		return "", apperrors.Validation("video id is not in valid format")
	}
	return req.VideoID, nil
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type publishStatusRequest struct {
	VideoID     string `json:"videoId"`
	IsPublished bool   `json:"isPublished"`
}

type videoRefRequest struct {
	VideoID string `json:"videoId"`
}

type viewResponse struct {
	Counted bool `json:"counted"`
}
