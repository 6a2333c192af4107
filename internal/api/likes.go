// ABOUTME: Like and subscription toggle handlers
// ABOUTME: Toggles are idempotent pairs: same call likes then unlikes

package api

import (
	"net/http"

	"github.com/tubecast/tubecast/internal/auth"
	"github.com/tubecast/tubecast/internal/store"
)

// resolveLikeTarget checks the target type and that the target exists.
func (s *Server) resolveLikeTarget(r *http.Request) (targetType, targetID string, err error) {
	targetType = r.PathValue("targetType")
	targetID = r.PathValue("id")

	switch targetType {
	case store.LikeTargetVideo:
		_, err = s.store.GetVideo(r.Context(), targetID)
	case store.LikeTargetComment:
		_, err = s.store.GetComment(r.Context(), targetID)
	case store.LikeTargetTweet:
		_, err = s.store.GetTweet(r.Context(), targetID)
	default:
		return "", "", errBadLikeTarget
	}
	return targetType, targetID, err
}

var errBadLikeTarget = &badRequestError{"target type must be video, comment, or tweet"}

// badRequestError carries a client-facing message through sendError.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	targetType, targetID, err := s.resolveLikeTarget(r)
	if err != nil {
		if bre, ok := err.(*badRequestError); ok {
			s.sendJSONError(w, http.StatusBadRequest, bre.msg)
			return
		}
		s.sendError(w, err)
		return
	}

	id := auth.MustFromContext(r.Context())
	liked, err := s.store.ToggleLike(r.Context(), id.UserID(), targetType, targetID)
	if err != nil {
		s.sendError(w, err)
		return
	}

	count, err := s.store.CountLikes(r.Context(), targetType, targetID)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"liked":      liked,
		"like_count": count,
	})
}

func (s *Server) handleListLikedVideos(w http.ResponseWriter, r *http.Request) {
	id := auth.MustFromContext(r.Context())

	videoIDs, err := s.store.ListLikedVideoIDs(r.Context(), id.UserID())
	if err != nil {
		s.sendError(w, err)
		return
	}

	videos := make([]videoResponse, 0, len(videoIDs))
	for _, vid := range videoIDs {
		video, err := s.store.GetVideo(r.Context(), vid)
		if err != nil {
			// The video may have been deleted since it was liked.
			continue
		}
		videos = append(videos, renderVideo(video))
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}

func (s *Server) handleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	channel, err := s.store.GetUser(r.Context(), r.PathValue("channelID"))
	if err != nil {
		s.sendError(w, err)
		return
	}

	id := auth.MustFromContext(r.Context())
	if id.UserID() == channel.ID {
		s.sendJSONError(w, http.StatusBadRequest, "cannot subscribe to your own channel")
		return
	}

	subscribed, err := s.store.ToggleSubscription(r.Context(), id.UserID(), channel.ID)
	if err != nil {
		s.sendError(w, err)
		return
	}

	count, err := s.store.CountSubscribers(r.Context(), channel.ID)
	if err != nil {
		s.sendError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribed":       subscribed,
		"subscriber_count": count,
	})
}
