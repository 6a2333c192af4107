// ABOUTME: HTTP API server wiring handlers under /api/v1
// ABOUTME: Builds the mux with auth middleware and the media file server

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/media"
	"github.com/tubecast/tubecast/internal/store"
)

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	store      store.Store
	authn      *auth.Authenticator
	media      *media.Store
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
}

// New creates the API server. accessTTL and refreshTTL bound the session
// cookie lifetimes to match the tokens they carry.
func New(s store.Store, authn *auth.Authenticator, m *media.Store, accessTTL, refreshTTL time.Duration) *Server {
	return &Server{
		store:      s,
		authn:      authn,
		media:      m,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		logger:     slog.Default().With("component", "api"),
	}
}

// Handler builds the full route table. Public read endpoints get optional
// auth; every mutating endpoint sits behind the required-auth middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	authed := auth.Middleware(s.authn, s.store)
	optional := auth.OptionalMiddleware(s.authn, s.store)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Session lifecycle
	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/users/refresh", s.handleRefresh)
	mux.Handle("POST /api/v1/users/logout", authed(http.HandlerFunc(s.handleLogout)))
	mux.Handle("POST /api/v1/users/change-password", authed(http.HandlerFunc(s.handleChangePassword)))

	// Profile
	mux.Handle("GET /api/v1/users/me", authed(http.HandlerFunc(s.handleMe)))
	mux.Handle("PATCH /api/v1/users/me", authed(http.HandlerFunc(s.handleUpdateProfile)))
	mux.Handle("PATCH /api/v1/users/me/avatar", authed(http.HandlerFunc(s.handleUpdateAvatar)))
	mux.Handle("PATCH /api/v1/users/me/cover", authed(http.HandlerFunc(s.handleUpdateCover)))
	mux.Handle("GET /api/v1/users/me/history", authed(http.HandlerFunc(s.handleWatchHistory)))
	mux.Handle("GET /api/v1/channels/{username}", optional(http.HandlerFunc(s.handleChannelProfile)))

	// Videos
	mux.Handle("POST /api/v1/videos", authed(http.HandlerFunc(s.handlePublishVideo)))
	mux.Handle("GET /api/v1/videos", optional(http.HandlerFunc(s.handleListVideos)))
	mux.Handle("GET /api/v1/videos/{id}", optional(http.HandlerFunc(s.handleGetVideo)))
	mux.Handle("PATCH /api/v1/videos/{id}", authed(http.HandlerFunc(s.handleUpdateVideo)))
	mux.Handle("DELETE /api/v1/videos/{id}", authed(http.HandlerFunc(s.handleDeleteVideo)))
	mux.Handle("POST /api/v1/videos/{id}/toggle-publish", authed(http.HandlerFunc(s.handleTogglePublish)))

	// Comments
	mux.Handle("GET /api/v1/videos/{id}/comments", optional(http.HandlerFunc(s.handleListComments)))
	mux.Handle("POST /api/v1/videos/{id}/comments", authed(http.HandlerFunc(s.handleCreateComment)))
	mux.Handle("PATCH /api/v1/comments/{id}", authed(http.HandlerFunc(s.handleUpdateComment)))
	mux.Handle("DELETE /api/v1/comments/{id}", authed(http.HandlerFunc(s.handleDeleteComment)))

	// Tweets
	mux.Handle("POST /api/v1/tweets", authed(http.HandlerFunc(s.handleCreateTweet)))
	mux.Handle("GET /api/v1/users/{id}/tweets", optional(http.HandlerFunc(s.handleListUserTweets)))
	mux.Handle("PATCH /api/v1/tweets/{id}", authed(http.HandlerFunc(s.handleUpdateTweet)))
	mux.Handle("DELETE /api/v1/tweets/{id}", authed(http.HandlerFunc(s.handleDeleteTweet)))

	// Playlists
	mux.Handle("POST /api/v1/playlists", authed(http.HandlerFunc(s.handleCreatePlaylist)))
	mux.Handle("GET /api/v1/playlists/{id}", optional(http.HandlerFunc(s.handleGetPlaylist)))
	mux.Handle("GET /api/v1/users/{id}/playlists", optional(http.HandlerFunc(s.handleListUserPlaylists)))
	mux.Handle("PATCH /api/v1/playlists/{id}", authed(http.HandlerFunc(s.handleUpdatePlaylist)))
	mux.Handle("DELETE /api/v1/playlists/{id}", authed(http.HandlerFunc(s.handleDeletePlaylist)))
	mux.Handle("POST /api/v1/playlists/{id}/videos/{videoID}", authed(http.HandlerFunc(s.handleAddPlaylistVideo)))
	mux.Handle("DELETE /api/v1/playlists/{id}/videos/{videoID}", authed(http.HandlerFunc(s.handleRemovePlaylistVideo)))

	// Likes and subscriptions
	mux.Handle("POST /api/v1/likes/{targetType}/{id}", authed(http.HandlerFunc(s.handleToggleLike)))
	mux.Handle("GET /api/v1/likes/videos", authed(http.HandlerFunc(s.handleListLikedVideos)))
	mux.Handle("POST /api/v1/subscriptions/{channelID}", authed(http.HandlerFunc(s.handleToggleSubscription)))

	// Dashboard
	mux.Handle("GET /api/v1/dashboard/stats", authed(http.HandlerFunc(s.handleDashboardStats)))
	mux.Handle("GET /api/v1/dashboard/videos", authed(http.HandlerFunc(s.handleDashboardVideos)))

	// Stored uploads
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.media.Dir()))))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
