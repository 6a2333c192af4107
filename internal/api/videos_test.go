// ABOUTME: Tests for video publish, watch, ownership, and engagement flows
// ABOUTME: Ownership violations must return 403 across every resource type

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAndWatchVideo(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	videoID := ts.publishVideo(t, creator, "First Upload")

	// Anyone can watch a published video, and watching counts a view.
	rec, body := ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "First Upload", body["title"])
	assert.Equal(t, float64(1), body["views"])
	assert.Contains(t, body["description_html"], "<p>")

	rec, body = ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["views"])
}

func TestWatchRecordsHistory(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	viewer := ts.signup(t, "viewer")
	videoID := ts.publishVideo(t, creator, "Watched Clip")

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := ts.do(t, http.MethodGet, "/api/v1/users/me/history", viewer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	videos := body["videos"].([]interface{})
	require.Len(t, videos, 1)
	assert.Equal(t, "Watched Clip", videos[0].(map[string]interface{})["title"])
}

func TestListVideos(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	ts.publishVideo(t, creator, "Go Tutorial")
	ts.publishVideo(t, creator, "Cooking Show")

	rec, body := ts.do(t, http.MethodGet, "/api/v1/videos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["videos"], 2)

	rec, body = ts.do(t, http.MethodGet, "/api/v1/videos?query=tutorial", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	videos := body["videos"].([]interface{})
	require.Len(t, videos, 1)
	assert.Equal(t, "Go Tutorial", videos[0].(map[string]interface{})["title"])
}

func TestUnpublishedVideoHidden(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	viewer := ts.signup(t, "viewer")
	videoID := ts.publishVideo(t, creator, "Draft")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/videos/"+videoID+"/toggle-publish", creator, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Hidden from strangers and from the public listing.
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, viewer, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec, body := ts.do(t, http.MethodGet, "/api/v1/videos", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["videos"])

	// Still visible to the owner.
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, creator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestVideoOwnershipGuard(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	stranger := ts.signup(t, "stranger")
	videoID := ts.publishVideo(t, creator, "Mine")

	// A stranger with a valid session cannot mutate the video.
	rec, _ := ts.do(t, http.MethodPatch, "/api/v1/videos/"+videoID, stranger, map[string]string{"title": "Stolen"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/videos/"+videoID, stranger, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/videos/"+videoID+"/toggle-publish", stranger, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The title is untouched.
	rec, body := ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mine", body["title"])

	// The owner can edit and delete.
	rec, _ = ts.do(t, http.MethodPatch, "/api/v1/videos/"+videoID, creator, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/videos/"+videoID, creator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentFlow(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	commenter := ts.signup(t, "commenter")
	stranger := ts.signup(t, "stranger")
	videoID := ts.publishVideo(t, creator, "Discussed")

	rec, body := ts.do(t, http.MethodPost, "/api/v1/videos/"+videoID+"/comments", commenter, map[string]string{
		"content": "great video",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	commentID := body["id"].(string)

	rec, body = ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["comments"], 1)

	// Neither a stranger nor the video owner may edit someone's comment.
	for _, token := range []string{stranger, creator} {
		rec, _ = ts.do(t, http.MethodPatch, "/api/v1/comments/"+commentID, token, map[string]string{"content": "edited"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		rec, _ = ts.do(t, http.MethodDelete, "/api/v1/comments/"+commentID, token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec, body = ts.do(t, http.MethodPatch, "/api/v1/comments/"+commentID, commenter, map[string]string{"content": "still great"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "still great", body["content"])

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/comments/"+commentID, commenter, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTweetFlow(t *testing.T) {
	ts := newTestServer(t)
	author := ts.signup(t, "author")
	stranger := ts.signup(t, "stranger")

	rec, body := ts.do(t, http.MethodPost, "/api/v1/tweets", author, map[string]string{"content": "hello world"})
	require.Equal(t, http.StatusCreated, rec.Code)
	tweetID := body["id"].(string)
	authorID := body["owner_user_id"].(string)

	rec, body = ts.do(t, http.MethodGet, "/api/v1/users/"+authorID+"/tweets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["tweets"], 1)

	rec, _ = ts.do(t, http.MethodPatch, "/api/v1/tweets/"+tweetID, stranger, map[string]string{"content": "hijacked"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/tweets/"+tweetID, author, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPlaylistFlow(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.signup(t, "owner")
	stranger := ts.signup(t, "stranger")
	videoID := ts.publishVideo(t, owner, "Clip")

	rec, body := ts.do(t, http.MethodPost, "/api/v1/playlists", owner, map[string]interface{}{
		"name": "Favorites", "public": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	playlistID := body["id"].(string)

	// Private playlists are invisible to strangers but not the owner.
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/playlists/"+playlistID, stranger, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/playlists/"+playlistID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Membership is owner-only.
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, stranger, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Adding twice conflicts.
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, owner, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, body = ts.do(t, http.MethodGet, "/api/v1/playlists/"+playlistID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["video_ids"], 1)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/playlists/"+playlistID+"/videos/"+videoID, owner, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeToggles(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	fan := ts.signup(t, "fan")
	videoID := ts.publishVideo(t, creator, "Likeable")

	rec, body := ts.do(t, http.MethodPost, "/api/v1/likes/video/"+videoID, fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["like_count"])

	// Liked videos listing.
	rec, body = ts.do(t, http.MethodGet, "/api/v1/likes/videos", fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["videos"], 1)

	// Toggling again unlikes.
	rec, body = ts.do(t, http.MethodPost, "/api/v1/likes/video/"+videoID, fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["liked"])
	assert.Equal(t, float64(0), body["like_count"])

	// Unknown target type is a 400, missing target a 404.
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/likes/channel/"+videoID, fan, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/likes/video/no-such-id", fan, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubscriptionToggle(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "creator")
	fan := ts.signup(t, "fan")

	rec, body := ts.do(t, http.MethodGet, "/api/v1/channels/creator", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	channelID := body["id"].(string)

	rec, body = ts.do(t, http.MethodPost, "/api/v1/subscriptions/"+channelID, fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["subscribed"])

	rec, body = ts.do(t, http.MethodPost, "/api/v1/subscriptions/"+channelID, fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["subscribed"])

	// Self-subscription is rejected.
	creator := ts.signup(t, "creatortwo")
	rec, body = ts.do(t, http.MethodGet, "/api/v1/users/me", creator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/subscriptions/"+body["id"].(string), creator, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	creator := ts.signup(t, "creator")
	fan := ts.signup(t, "fan")

	videoID := ts.publishVideo(t, creator, "Hit Video")
	ts.publishVideo(t, creator, "Second Video")

	// One watch and one like from the fan.
	rec, _ := ts.do(t, http.MethodGet, "/api/v1/videos/"+videoID, fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/likes/video/"+videoID, fan, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := ts.do(t, http.MethodGet, "/api/v1/dashboard/stats", creator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["total_videos"])
	assert.Equal(t, float64(1), body["total_views"])
	assert.Equal(t, float64(1), body["total_likes"])

	rec, body = ts.do(t, http.MethodGet, "/api/v1/dashboard/videos", creator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["videos"], 2)
}
