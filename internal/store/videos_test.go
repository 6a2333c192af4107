// ABOUTME: Tests for video persistence, filtered listing, and channel stats
// ABOUTME: Uses a temp-file SQLite database per test

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestVideo inserts a published video and returns it.
func newTestVideo(t *testing.T, s *SQLiteStore, ownerID, title string) *Video {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	video := &Video{
		ID:           uuid.New().String(),
		OwnerUserID:  ownerID,
		Title:        title,
		Description:  "about " + title,
		VideoURL:     "http://example.com/v/" + title + ".mp4",
		ThumbnailURL: "http://example.com/t/" + title + ".jpg",
		Duration:     120,
		Published:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateVideo(context.Background(), video))
	return video
}

func TestStore_CreateAndGetVideo(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, store, "creator")
	video := newTestVideo(t, store, owner.ID, "intro")

	retrieved, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "intro", retrieved.Title)
	assert.Equal(t, owner.ID, retrieved.OwnerID())
	assert.True(t, retrieved.Published)
}

func TestStore_GetVideo_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetVideo(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateVideo(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, store, "creator")
	video := newTestVideo(t, store, owner.ID, "intro")

	video.Title = "updated title"
	video.Published = false
	require.NoError(t, store.UpdateVideo(ctx, video))

	retrieved, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated title", retrieved.Title)
	assert.False(t, retrieved.Published)
}

func TestStore_DeleteVideo_CascadesComments(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, store, "creator")
	video := newTestVideo(t, store, owner.ID, "intro")

	comment := &Comment{
		ID:          uuid.New().String(),
		VideoID:     video.ID,
		OwnerUserID: owner.ID,
		Content:     "first",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.CreateComment(ctx, comment))

	require.NoError(t, store.DeleteVideo(ctx, video.ID))

	_, err := store.GetVideo(ctx, video.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetComment(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteVideo_CleansAllLikes(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, store, "creator")
	fan := newTestUser(t, store, "fan")
	video := newTestVideo(t, store, owner.ID, "intro")

	comment := &Comment{
		ID:          uuid.New().String(),
		VideoID:     video.ID,
		OwnerUserID: fan.ID,
		Content:     "first",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, store.CreateComment(ctx, comment))

	liked, err := store.ToggleLike(ctx, fan.ID, LikeTargetVideo, video.ID)
	require.NoError(t, err)
	require.True(t, liked)
	liked, err = store.ToggleLike(ctx, fan.ID, LikeTargetComment, comment.ID)
	require.NoError(t, err)
	require.True(t, liked)

	require.NoError(t, store.DeleteVideo(ctx, video.ID))

	// No like row may outlive its target, including likes on comments
	// that went away with the video.
	count, err := store.CountLikes(ctx, LikeTargetVideo, video.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	count, err = store.CountLikes(ctx, LikeTargetComment, comment.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStore_ListVideos_Filtering(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	alice := newTestUser(t, store, "alice")
	bob := newTestUser(t, store, "bob")

	newTestVideo(t, store, alice.ID, "go tutorial")
	newTestVideo(t, store, alice.ID, "rust tutorial")
	draft := newTestVideo(t, store, bob.ID, "unfinished")
	draft.Published = false
	require.NoError(t, store.UpdateVideo(ctx, draft))

	published, err := store.ListVideos(ctx, VideoFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	byOwner, err := store.ListVideos(ctx, VideoFilter{OwnerUserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	byQuery, err := store.ListVideos(ctx, VideoFilter{Query: "rust"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "rust tutorial", byQuery[0].Title)
}

func TestStore_ListVideos_Pagination(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, store, "creator")
	for i := 0; i < 5; i++ {
		newTestVideo(t, store, owner.ID, string(rune('a'+i)))
	}

	page1, err := store.ListVideos(ctx, VideoFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page3, err := store.ListVideos(ctx, VideoFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestStore_IncrementVideoViews(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	owner := newTestUser(t, store, "creator")
	video := newTestVideo(t, store, owner.ID, "intro")

	require.NoError(t, store.IncrementVideoViews(ctx, video.ID))
	require.NoError(t, store.IncrementVideoViews(ctx, video.ID))

	retrieved, err := store.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), retrieved.Views)

	err = store.IncrementVideoViews(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetChannelStats(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	creator := newTestUser(t, store, "creator")
	fan := newTestUser(t, store, "fan")

	v1 := newTestVideo(t, store, creator.ID, "one")
	newTestVideo(t, store, creator.ID, "two")
	require.NoError(t, store.IncrementVideoViews(ctx, v1.ID))

	_, err := store.ToggleSubscription(ctx, fan.ID, creator.ID)
	require.NoError(t, err)
	_, err = store.ToggleLike(ctx, fan.ID, LikeTargetVideo, v1.ID)
	require.NoError(t, err)

	stats, err := store.GetChannelStats(ctx, creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(1), stats.TotalViews)
	assert.Equal(t, int64(1), stats.TotalSubscribers)
	assert.Equal(t, int64(1), stats.TotalLikes)
}
