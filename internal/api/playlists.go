// ABOUTME: Playlist handlers for named video collections
// ABOUTME: Private playlists are visible to their owner only

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/store"
)

type playlistResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Public      bool      `json:"public"`
	VideoIDs    []string  `json:"video_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func renderPlaylist(p *store.Playlist) playlistResponse {
	ids := p.VideoIDs
	if ids == nil {
		ids = []string{}
	}
	return playlistResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public,
		VideoIDs:    ids,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type playlistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Public      *bool   `json:"public"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	id := auth.MustFromContext(r.Context())
	now := time.Now().UTC()
	playlist := &store.Playlist{
		ID:          uuid.New().String(),
		OwnerUserID: id.UserID(),
		Name:        strings.TrimSpace(*req.Name),
		Public:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}
	if req.Public != nil {
		playlist.Public = *req.Public
	}

	if err := s.store.CreatePlaylist(r.Context(), playlist); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, renderPlaylist(playlist))
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	if !playlist.Public {
		viewer := auth.FromContext(r.Context())
		if viewer == nil || viewer.UserID() != playlist.OwnerUserID {
			s.sendJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
	}
	s.writeJSON(w, http.StatusOK, renderPlaylist(playlist))
}

func (s *Server) handleListUserPlaylists(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	// Owners see their private playlists; everyone else sees public only.
	viewer := auth.FromContext(r.Context())
	includePrivate := viewer != nil && viewer.UserID() == user.ID

	playlists, err := s.store.ListUserPlaylists(r.Context(), user.ID, includePrivate)
	if err != nil {
		s.sendError(w, err)
		return
	}

	out := make([]playlistResponse, len(playlists))
	for i, p := range playlists {
		out[i] = renderPlaylist(p)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": out})
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	playlist, err := s.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), playlist); err != nil {
		s.sendError(w, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			s.sendJSONError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		playlist.Name = name
	}
	if req.Description != nil {
		playlist.Description = *req.Description
	}
	if req.Public != nil {
		playlist.Public = *req.Public
	}
	playlist.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdatePlaylist(r.Context(), playlist); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderPlaylist(playlist))
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), playlist); err != nil {
		s.sendError(w, err)
		return
	}

	if err := s.store.DeletePlaylist(r.Context(), playlist.ID); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// playlistForMutation loads the playlist and checks the caller owns it.
func (s *Server) playlistForMutation(w http.ResponseWriter, r *http.Request) *store.Playlist {
	playlist, err := s.store.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return nil
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), playlist); err != nil {
		s.sendError(w, err)
		return nil
	}
	return playlist
}

func (s *Server) handleAddPlaylistVideo(w http.ResponseWriter, r *http.Request) {
	playlist := s.playlistForMutation(w, r)
	if playlist == nil {
		return
	}

	video, err := s.store.GetVideo(r.Context(), r.PathValue("videoID"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	if err := s.store.AddVideoToPlaylist(r.Context(), playlist.ID, video.ID); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (s *Server) handleRemovePlaylistVideo(w http.ResponseWriter, r *http.Request) {
	playlist := s.playlistForMutation(w, r)
	if playlist == nil {
		return
	}

	if err := s.store.RemoveVideoFromPlaylist(r.Context(), playlist.ID, r.PathValue("videoID")); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
