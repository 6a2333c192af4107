// Package store provides persistent storage for tubecast using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with multiple specialized
// interfaces:
//
//   - UserStore: Accounts, profile updates, and the refresh-token session slot
//   - VideoStore: Video CRUD, filtered listing, view counting
//   - CommentStore / TweetStore: User content on videos and the community feed
//   - PlaylistStore: Playlists with ordered video membership
//   - LikeStore / SubscriptionStore: Toggle-style likes and channel follows
//   - HistoryStore / StatsStore: Watch history and dashboard aggregates
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries.
//
// # Session Slot
//
// users.refresh_token is the only shared mutable state in the system: at most
// one live refresh token per user. SetRefreshToken overwrites it on login,
// RotateRefreshToken swaps it with a single conditional UPDATE on refresh
// (exact string comparison, so a superseded token always loses), and
// ClearRefreshToken nulls it on logout.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrUsernameExists / ErrEmailExists: Registration conflicts
//   - ErrRefreshTokenMismatch: Rotation presented a superseded token
//   - ErrVideoInPlaylist / ErrVideoNotInPlaylist: Playlist membership conflicts
//
// All methods accept context.Context for cancellation support.
package store
