// ABOUTME: Comment handlers for video discussion threads
// ABOUTME: Only the comment author may edit or delete a comment

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/store"
)

const maxCommentLength = 2000

type commentResponse struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	OwnerUserID string    `json:"owner_user_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func renderComment(c *store.Comment) commentResponse {
	return commentResponse{
		ID:          c.ID,
		VideoID:     c.VideoID,
		OwnerUserID: c.OwnerUserID,
		Content:     c.Content,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func validateCommentContent(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "content is required"
	}
	if len(content) > maxCommentLength {
		return "content too long"
	}
	return ""
}

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	// The video must exist; a missing video is a 404, not an empty list.
	video, err := s.store.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	page, limit := parsePagination(r)
	comments, err := s.store.ListVideoComments(r.Context(), video.ID, page, limit)
	if err != nil {
		s.sendError(w, err)
		return
	}

	out := make([]commentResponse, len(comments))
	for i, c := range comments {
		out[i] = renderComment(c)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"comments": out,
		"page":     page,
	})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCommentContent(req.Content); msg != "" {
		s.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	video, err := s.store.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	id := auth.MustFromContext(r.Context())
	now := time.Now().UTC()
	comment := &store.Comment{
		ID:          uuid.New().String(),
		VideoID:     video.ID,
		OwnerUserID: id.UserID(),
		Content:     strings.TrimSpace(req.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateComment(r.Context(), comment); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, renderComment(comment))
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateCommentContent(req.Content); msg != "" {
		s.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	comment, err := s.store.GetComment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), comment); err != nil {
		s.sendError(w, err)
		return
	}

	comment.Content = strings.TrimSpace(req.Content)
	comment.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateComment(r.Context(), comment); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderComment(comment))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	comment, err := s.store.GetComment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), comment); err != nil {
		s.sendError(w, err)
		return
	}

	if err := s.store.DeleteComment(r.Context(), comment.ID); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
