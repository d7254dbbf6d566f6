package handlers

import (
	"net/http"

	"github.com/vidtube/backend/internal/middleware"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Sessions: deps.Sessions}
	users := UserHandler{Users: deps.Users, Hasher: deps.Hasher, Media: deps.Media}
	videos := VideoHandler{Videos: deps.Videos, Users: deps.Users, Media: deps.Media}
	channels := ChannelHandler{Channels: deps.Channels}
	history := HistoryHandler{History: deps.History}

	authed := middleware.Authenticate(deps.Tokens)
	identified := middleware.Identify(deps.Tokens)

	mux.HandleFunc("GET /healthz", health.Handle)

	mux.HandleFunc("POST /api/v1/auth/login", auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", auth.Refresh)
	mux.Handle("POST /api/v1/auth/logout", authed(http.HandlerFunc(auth.Logout)))

	mux.HandleFunc("POST /api/v1/users/register", users.Register)
	mux.Handle("GET /api/v1/users", authed(http.HandlerFunc(users.List)))
	mux.Handle("PATCH /api/v1/users/update", authed(http.HandlerFunc(users.Update)))
	mux.Handle("DELETE /api/v1/users/{id}", authed(http.HandlerFunc(users.Delete)))
	mux.Handle("GET /api/v1/users/{id}/history", authed(http.HandlerFunc(history.List)))
	mux.Handle("POST /api/v1/users/history", authed(http.HandlerFunc(history.Append)))

	mux.HandleFunc("GET /api/v1/videos", videos.List)
	mux.HandleFunc("GET /api/v1/videos/{id}", videos.Get)
	mux.Handle("POST /api/v1/videos", authed(http.HandlerFunc(videos.Upload)))
	mux.Handle("PATCH /api/v1/videos/publish", authed(http.HandlerFunc(videos.ChangePublishStatus)))
	mux.Handle("POST /api/v1/videos/like", authed(http.HandlerFunc(videos.Like)))
	mux.Handle("POST /api/v1/videos/view", authed(http.HandlerFunc(videos.View)))

	mux.Handle("GET /api/v1/channels/{username}", identified(http.HandlerFunc(channels.Profile)))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Sessions SessionService
	Users    UserStore
	Hasher   PasswordHasher
	Videos   VideoStore
	Channels ChannelResolver
	History  HistoryService
	Media    MediaUploader
	Tokens   middleware.TokenVerifier
}
