package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

// HistoryHandler implements the watch-history endpoints.
type HistoryHandler struct {
	History HistoryService
}

// List handles GET /api/v1/users/{id}/history requests, resolving the
// user's ordered history into full video records.
func (h HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.History == nil {
		logger.Error("history service unavailable")
		respondError(ctx, w, apperrors.Server("history services unavailable"))
		return
	}

	userID := r.PathValue("id")
	videos, err := h.History.Resolve(ctx, userID)
	if err != nil {
		logger.Warn("history resolution failed", "userId", userID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "watch history fetched successfully", videos)
}

// Append handles POST /api/v1/users/history requests, adding a video to a
// user's history. The target user defaults to the authenticated caller when
// the body carries no userId.
func (h HistoryHandler) Append(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.History == nil {
		logger.Error("history service unavailable")
		respondError(ctx, w, apperrors.Server("history services unavailable"))
		return
	}

	var req appendHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid history payload", "error", err)
		respondError(ctx, w, apperrors.Validation("invalid request body"))
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = logging.UserIDFromContext(ctx)
	}

	if err := h.History.Append(ctx, userID, req.VideoID); err != nil {
		logger.Warn("history append failed", "userId", userID, "videoId", req.VideoID, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "video added to watch history", struct{}{})
}

type appendHistoryRequest struct {
	UserID  string `json:"userId"`
	VideoID string `json:"videoId"`
}
