package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// respondData writes the uniform success envelope.
func respondData(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	respondJSON(ctx, w, status, successResponse{Success: true, Message: message, Data: data})
}

// respondError maps err onto the uniform failure envelope. Errors outside
// the apperrors taxonomy become opaque 500s so internal detail never leaks.
func respondError(ctx context.Context, w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)

	message := "internal server error"
	details := []string{}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if len(appErr.Details) > 0 {
			details = appErr.Details
		}
	} else {
		logging.FromContext(ctx).Error("unexpected handler failure", "error", err)
	}

	respondJSON(ctx, w, status, errorResponse{Success: false, Message: message, Errors: details})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status)
	}
}
