// ABOUTME: Video handlers: publish, browse, watch, update, delete
// ABOUTME: Descriptions are markdown, rendered to HTML on the watch page

package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/media"
	"github.com/tubecast/tubecast/internal/store"
	"github.com/yuin/goldmark"
)

type videoResponse struct {
	ID           string    `json:"id"`
	OwnerUserID  string    `json:"owner_user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Duration     int64     `json:"duration"`
	Views        int64     `json:"views"`
	Published    bool      `json:"published"`
	CreatedAt    time.Time `json:"created_at"`
}

func renderVideo(v *store.Video) videoResponse {
	return videoResponse{
		ID:           v.ID,
		OwnerUserID:  v.OwnerUserID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		Published:    v.Published,
		CreatedAt:    v.CreatedAt,
	}
}

func renderVideos(videos []*store.Video) []videoResponse {
	out := make([]videoResponse, len(videos))
	for i, v := range videos {
		out[i] = renderVideo(v)
	}
	return out
}

// watchResponse is the full watch-page payload with rendered description
// and engagement counts.
type watchResponse struct {
	videoResponse
	DescriptionHTML string `json:"description_html"`
	LikeCount       int64  `json:"like_count"`
}

// parsePagination reads page and limit query params with sane defaults.
func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

// handlePublishVideo accepts a multipart form with the video file, an
// optional thumbnail, and title/description fields.
func (s *Server) handlePublishVideo(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		s.sendJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "video file is required")
		return
	}
	defer file.Close()

	blob, err := s.media.Save(r.Context(), media.KindVideo, header.Filename, file)
	if err != nil {
		s.sendError(w, err)
		return
	}

	thumbURL := ""
	if tf, th, err := r.FormFile("thumbnail"); err == nil {
		defer tf.Close()
		thumb, err := s.media.Save(r.Context(), media.KindThumbnail, th.Filename, tf)
		if err != nil {
			s.media.Remove(blob.URL)
			s.sendError(w, err)
			return
		}
		thumbURL = thumb.URL
	}

	duration, _ := strconv.ParseInt(r.FormValue("duration"), 10, 64)

	id := auth.MustFromContext(r.Context())
	now := time.Now().UTC()
	video := &store.Video{
		ID:           uuid.New().String(),
		OwnerUserID:  id.UserID(),
		Title:        title,
		Description:  r.FormValue("description"),
		VideoURL:     blob.URL,
		ThumbnailURL: thumbURL,
		Duration:     duration,
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateVideo(r.Context(), video); err != nil {
		s.sendError(w, err)
		return
	}

	s.logger.Info("video published", "video_id", video.ID, "owner", video.OwnerUserID)
	s.writeJSON(w, http.StatusCreated, renderVideo(video))
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	q := r.URL.Query()

	filter := store.VideoFilter{
		PublishedOnly: true,
		Query:         q.Get("query"),
		SortBy:        q.Get("sort_by"),
		SortAsc:       q.Get("sort_order") == "asc",
		Page:          page,
		Limit:         limit,
	}
	if owner := q.Get("owner"); owner != "" {
		filter.OwnerUserID = owner
	}

	videos, err := s.store.ListVideos(r.Context(), filter)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"videos": renderVideos(videos),
		"page":   page,
	})
}

// handleGetVideo serves the watch page: the view counts, the description is
// rendered to HTML, and signed-in viewers get the watch recorded in history.
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	viewer := auth.FromContext(r.Context())

	// Unpublished videos are visible to the owner only.
	if !video.Published && (viewer == nil || viewer.UserID() != video.OwnerUserID) {
		s.sendJSONError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.store.IncrementVideoViews(r.Context(), video.ID); err != nil {
		s.sendError(w, err)
		return
	}
	video.Views++

	if viewer != nil {
		if err := s.store.RecordWatch(r.Context(), viewer.UserID(), video.ID); err != nil {
			s.logger.Warn("failed to record watch", "video_id", video.ID, "error", err)
		}
	}

	likes, err := s.store.CountLikes(r.Context(), store.LikeTargetVideo, video.ID)
	if err != nil {
		s.sendError(w, err)
		return
	}

	var htmlBuf bytes.Buffer
	if err := goldmark.Convert([]byte(video.Description), &htmlBuf); err != nil {
		s.logger.Error("failed to render description", "video_id", video.ID, "error", err)
	}

	s.writeJSON(w, http.StatusOK, watchResponse{
		videoResponse:   renderVideo(video),
		DescriptionHTML: htmlBuf.String(),
		LikeCount:       likes,
	})
}

type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	var req updateVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	video, err := s.store.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), video); err != nil {
		s.sendError(w, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			s.sendJSONError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		video.Title = title
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	video.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateVideo(r.Context(), video); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderVideo(video))
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), video); err != nil {
		s.sendError(w, err)
		return
	}

	if err := s.store.DeleteVideo(r.Context(), video.ID); err != nil {
		s.sendError(w, err)
		return
	}
	for _, u := range []string{video.VideoURL, video.ThumbnailURL} {
		if u == "" {
			continue
		}
		if err := s.media.Remove(u); err != nil {
			s.logger.Warn("failed to remove blob", "url", u, "error", err)
		}
	}

	s.logger.Info("video deleted", "video_id", video.ID)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleTogglePublish(w http.ResponseWriter, r *http.Request) {
	video, err := s.store.GetVideo(r.Context(), r.PathValue("id"))
	if err != nil {
		s.sendError(w, err)
		return
	}
	if err := auth.RequireOwner(auth.FromContext(r.Context()), video); err != nil {
		s.sendError(w, err)
		return
	}

	video.Published = !video.Published
	video.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateVideo(r.Context(), video); err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"published": video.Published})
}
