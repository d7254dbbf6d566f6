package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

// ChannelHandler implements the channel profile endpoint.
type ChannelHandler struct {
	Channels ChannelResolver
}

// Profile handles GET /api/v1/channels/{username} requests. The viewer's
// identity, when known, determines the isSubscribed flag.
func (h ChannelHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Channels == nil {
		logger.Error("channel resolver unavailable")
		respondError(ctx, w, apperrors.Server("channel services unavailable"))
		return
	}

	username := r.PathValue("username")
	viewerID := logging.UserIDFromContext(ctx)

	profile, err := h.Channels.Profile(ctx, username, viewerID)
	if err != nil {
		logger.Warn("channel profile lookup failed", "username", username, "error", err)
		respondError(ctx, w, err)
		return
	}

	respondData(ctx, w, http.StatusOK, "channel profile fetched successfully", profile)
}
