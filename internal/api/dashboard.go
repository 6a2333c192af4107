// ABOUTME: Creator dashboard handlers: channel stats and the owner's videos
// ABOUTME: Includes unpublished videos since the dashboard is owner-only

package api

import (
	"net/http"

	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/store"
)

type statsResponse struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalSubscribers int64 `json:"total_subscribers"`
	TotalLikes       int64 `json:"total_likes"`
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())

	stats, err := s.store.GetChannelStats(r.Context(), id.UserID())
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statsResponse{
		TotalVideos:      stats.TotalVideos,
		TotalViews:       stats.TotalViews,
		TotalSubscribers: stats.TotalSubscribers,
		TotalLikes:       stats.TotalLikes,
	})
}

func (s *Server) handleDashboardVideos(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())
	page, limit := parsePagination(r)

	videos, err := s.store.ListVideos(r.Context(), store.VideoFilter{
		OwnerUserID: id.UserID(),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": renderVideos(videos),
		"page":   page,
	})
}
