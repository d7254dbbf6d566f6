package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/models"
)

type fakeChannelResolver struct {
	lastViewer string
	profiles   map[string]models.ChannelProfile
}

func (f *fakeChannelResolver) Profile(_ context.Context, username, viewerID string) (models.ChannelProfile, error) {
	f.lastViewer = viewerID
	profile, ok := f.profiles[username]
	if !ok {
		return models.ChannelProfile{}, apperrors.NotFound("channel does not exist")
	}
	profile.IsSubscribed = viewerID != ""
	return profile, nil
}

func TestChannelHandlerProfile(t *testing.T) {
	resolver := &fakeChannelResolver{profiles: map[string]models.ChannelProfile{
		"alice": {
			PublicProfile: models.PublicProfile{ID: testUserID, Username: "alice"},
			ChannelStats:  models.ChannelStats{TotalSubscribers: 3, TotalSubscribedTo: 1},
		},
	}}
	handler := ChannelHandler{Channels: resolver}

	req := authedRequest(http.MethodGet, "/api/v1/channels/alice", nil, "viewer-1")
	req.SetPathValue("username", "alice")
	rec := httptest.NewRecorder()
	handler.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if resolver.lastViewer != "viewer-1" {
		t.Fatalf("expected viewer id to reach the resolver, got %q", resolver.lastViewer)
	}

	var resp struct {
		Data models.ChannelProfile `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.TotalSubscribers != 3 || resp.Data.TotalSubscribedTo != 1 {
		t.Fatalf("unexpected stats: %+v", resp.Data.ChannelStats)
	}
	if !resp.Data.IsSubscribed {
		t.Fatal("expected isSubscribed for authenticated viewer")
	}
}

func TestChannelHandlerProfileAnonymousViewer(t *testing.T) {
	resolver := &fakeChannelResolver{profiles: map[string]models.ChannelProfile{
		"alice": {PublicProfile: models.PublicProfile{Username: "alice"}},
	}}
	handler := ChannelHandler{Channels: resolver}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/alice", nil)
	req.SetPathValue("username", "alice")
	rec := httptest.NewRecorder()
	handler.Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if resolver.lastViewer != "" {
		t.Fatalf("expected anonymous viewer, got %q", resolver.lastViewer)
	}
}

func TestChannelHandlerProfileUnknownChannel(t *testing.T) {
	handler := ChannelHandler{Channels: &fakeChannelResolver{profiles: map[string]models.ChannelProfile{}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/ghost", nil)
	req.SetPathValue("username", "ghost")
	rec := httptest.NewRecorder()
	handler.Profile(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
