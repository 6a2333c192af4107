// ABOUTME: Store interfaces and data types for tubecast persistence
// ABOUTME: Defines User, Video, Comment, Tweet, Playlist, Like structs and store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when trying to create a user with a taken username
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when trying to create a user with a taken email
var ErrEmailExists = errors.New("email already exists")

// ErrRefreshTokenMismatch is returned by RotateRefreshToken when the stored
// slot does not hold the presented token. A cryptographically valid but
// superseded refresh token lands here, which is what makes rotation effective.
var ErrRefreshTokenMismatch = errors.New("refresh token mismatch")

// ErrVideoInPlaylist is returned when adding a video that is already in the playlist
var ErrVideoInPlaylist = errors.New("video already in playlist")

// ErrVideoNotInPlaylist is returned when removing a video the playlist doesn't contain
var ErrVideoNotInPlaylist = errors.New("video not in playlist")

// User represents a registered account. RefreshToken is the single session
// slot: at most one live refresh token per user, overwritten on every
// login/refresh, nil when no session is active.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	AvatarURL     string
	CoverImageURL string
	PasswordHash  string
	RefreshToken  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Sanitized returns a copy safe to hand to clients: credential hash and
// refresh token stripped.
func (u *User) Sanitized() *User {
	s := *u
	s.PasswordHash = ""
	s.RefreshToken = nil
	return &s
}

// Video represents an uploaded video
type Video struct {
	ID           string
	OwnerUserID  string
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     int64 // seconds
	Views        int64
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerID returns the owning user's id
func (v *Video) OwnerID() string { return v.OwnerUserID }

// Comment represents a comment on a video
type Comment struct {
	ID          string
	VideoID     string
	OwnerUserID string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID returns the owning user's id
func (c *Comment) OwnerID() string { return c.OwnerUserID }

// Tweet represents a short community post
type Tweet struct {
	ID          string
	OwnerUserID string
	Content     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID returns the owning user's id
func (t *Tweet) OwnerID() string { return t.OwnerUserID }

// Playlist represents a named collection of videos
type Playlist struct {
	ID          string
	OwnerUserID string
	Name        string
	Description string
	Public      bool
	VideoIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnerID returns the owning user's id
func (p *Playlist) OwnerID() string { return p.OwnerUserID }

// LikeTarget constants for the kinds of entities that can be liked
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetTweet   = "tweet"
)

// Like represents a user liking exactly one video, comment, or tweet
type Like struct {
	ID         string
	UserID     string
	TargetType string // "video", "comment", "tweet"
	TargetID   string
	CreatedAt  time.Time
}

// OwnerID returns the liking user's id
func (l *Like) OwnerID() string { return l.UserID }

// Subscription represents a user following a channel
type Subscription struct {
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// ChannelStats aggregates a channel's dashboard numbers
type ChannelStats struct {
	TotalVideos      int64
	TotalViews       int64
	TotalSubscribers int64
	TotalLikes       int64
}

// VideoFilter narrows ListVideos results
type VideoFilter struct {
	OwnerUserID   string // empty: any owner
	PublishedOnly bool
	Query         string // substring match on title/description
	SortBy        string // "created_at" (default) or "views"
	SortAsc       bool
	Page          int // 1-based
	Limit         int
}

// UserStore defines user persistence including the refresh-token session slot
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error

	// SetRefreshToken unconditionally overwrites the session slot (login).
	SetRefreshToken(ctx context.Context, userID, token string) error
	// RotateRefreshToken replaces current with next only when the slot holds
	// exactly current (single conditional UPDATE). Returns
	// ErrRefreshTokenMismatch when it does not, ErrNotFound for unknown users.
	RotateRefreshToken(ctx context.Context, userID, current, next string) error
	// ClearRefreshToken empties the slot (logout).
	ClearRefreshToken(ctx context.Context, userID string) error
}

// VideoStore defines video persistence
type VideoStore interface {
	CreateVideo(ctx context.Context, video *Video) error
	GetVideo(ctx context.Context, id string) (*Video, error)
	UpdateVideo(ctx context.Context, video *Video) error
	DeleteVideo(ctx context.Context, id string) error
	ListVideos(ctx context.Context, filter VideoFilter) ([]*Video, error)
	IncrementVideoViews(ctx context.Context, id string) error
}

// CommentStore defines comment persistence
type CommentStore interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListVideoComments(ctx context.Context, videoID string, page, limit int) ([]*Comment, error)
}

// TweetStore defines tweet persistence
type TweetStore interface {
	CreateTweet(ctx context.Context, tweet *Tweet) error
	GetTweet(ctx context.Context, id string) (*Tweet, error)
	UpdateTweet(ctx context.Context, tweet *Tweet) error
	DeleteTweet(ctx context.Context, id string) error
	ListUserTweets(ctx context.Context, userID string) ([]*Tweet, error)
}

// PlaylistStore defines playlist persistence
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, playlist *Playlist) error
	GetPlaylist(ctx context.Context, id string) (*Playlist, error)
	UpdatePlaylist(ctx context.Context, playlist *Playlist) error
	DeletePlaylist(ctx context.Context, id string) error
	ListUserPlaylists(ctx context.Context, userID string, includePrivate bool) ([]*Playlist, error)
	AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error
	RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error
}

// LikeStore defines like persistence
type LikeStore interface {
	// ToggleLike creates the like if absent, removes it if present.
	// Returns true when the like now exists.
	ToggleLike(ctx context.Context, userID, targetType, targetID string) (bool, error)
	CountLikes(ctx context.Context, targetType, targetID string) (int64, error)
	ListLikedVideoIDs(ctx context.Context, userID string) ([]string, error)
}

// SubscriptionStore defines channel subscription persistence
type SubscriptionStore interface {
	// ToggleSubscription subscribes if absent, unsubscribes if present.
	// Returns true when the subscription now exists.
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

// HistoryStore defines watch-history persistence
type HistoryStore interface {
	RecordWatch(ctx context.Context, userID, videoID string) error
	ListWatchHistory(ctx context.Context, userID string, limit int) ([]*Video, error)
}

// StatsStore defines dashboard aggregation queries
type StatsStore interface {
	GetChannelStats(ctx context.Context, userID string) (*ChannelStats, error)
}

// Store combines all persistence interfaces implemented by the SQLite store
type Store interface {
	UserStore
	VideoStore
	CommentStore
	TweetStore
	PlaylistStore
	LikeStore
	SubscriptionStore
	HistoryStore
	StatsStore

	Close() error
}
