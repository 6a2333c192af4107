// ABOUTME: Tweet handlers for short community posts
// ABOUTME: Only the author may edit or delete a tweet

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/store"
)

const maxTweetLength = 500

type tweetResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func renderTweet(t *store.Tweet) tweetResponse {
	return tweetResponse{
		ID:          t.ID,
		OwnerUserID: t.OwnerUserID,
		Content:     t.Content,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func validateTweetContent(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "content is required"
	}
	if len(content) > maxTweetLength {
		return "content too long"
	}
	return ""
}

type tweetRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTweetContent(req.Content); msg != "" {
		s.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	id := auth.MustFromContext(r.Context())
	now := time.Now().UTC()
	tweet := &store.Tweet{
		ID:          uuid.New().String(),
		OwnerUserID: id.UserID(),
		Content:     strings.TrimSpace(req.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTweet(r.Context(), tweet); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, renderTweet(tweet))
}

func (s *Server) handleListUserTweets(w http.ResponseWriter, r *http.Request) {
	// The user must exist; a missing user is a 404, not an empty list.
	user, err := s.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	tweets, err := s.store.ListUserTweets(r.Context(), user.ID)
	if err != nil {
		s.sendError(w, err)
		return
	}

	out := make([]tweetResponse, len(tweets))
	for i, t := range tweets {
		out[i] = renderTweet(t)
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"tweets": out})
}

func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTweetContent(req.Content); msg != "" {
		s.sendJSONError(w, http.StatusBadRequest, msg)
		return
	}

	tweet, err := s.store.GetTweet(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), tweet); err != nil {
		s.sendError(w, err)
		return
	}

	tweet.Content = strings.TrimSpace(req.Content)
	tweet.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateTweet(r.Context(), tweet); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderTweet(tweet))
}

func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	tweet, err := s.store.GetTweet(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), tweet); err != nil {
		s.sendError(w, err)
		return
	}

	if err := s.store.DeleteTweet(r.Context(), tweet.ID); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
