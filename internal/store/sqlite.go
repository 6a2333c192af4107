// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides user/video/comment/tweet/playlist/like persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			username        TEXT NOT NULL UNIQUE,
			email           TEXT NOT NULL UNIQUE,
			full_name       TEXT NOT NULL,
			avatar_url      TEXT NOT NULL DEFAULT '',
			cover_image_url TEXT NOT NULL DEFAULT '',
			password_hash   TEXT NOT NULL,
			refresh_token   TEXT,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

		CREATE TABLE IF NOT EXISTS videos (
			id            TEXT PRIMARY KEY,
			owner_id      TEXT NOT NULL REFERENCES users(id),
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			video_url     TEXT NOT NULL,
			thumbnail_url TEXT NOT NULL,
			duration      INTEGER NOT NULL DEFAULT 0,
			views         INTEGER NOT NULL DEFAULT 0,
			published     INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_videos_owner ON videos(owner_id);
		CREATE INDEX IF NOT EXISTS idx_videos_published_created ON videos(published, created_at DESC);

		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			video_id   TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_comments_video_created ON comments(video_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_comments_owner ON comments(owner_id);

		CREATE TABLE IF NOT EXISTS tweets (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tweets_owner_created ON tweets(owner_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS playlists (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL REFERENCES users(id),
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			public      INTEGER NOT NULL DEFAULT 1,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner_id);

		CREATE TABLE IF NOT EXISTS playlist_videos (
			playlist_id TEXT NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
			video_id    TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			position    INTEGER NOT NULL,
			added_at    TEXT NOT NULL,

			PRIMARY KEY (playlist_id, video_id)
		);

		CREATE INDEX IF NOT EXISTS idx_playlist_videos_playlist ON playlist_videos(playlist_id, position);

		CREATE TABLE IF NOT EXISTS likes (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			target_type TEXT NOT NULL,
			target_id   TEXT NOT NULL,
			created_at  TEXT NOT NULL,

			CHECK (target_type IN ('video', 'comment', 'tweet')),
			UNIQUE (user_id, target_type, target_id)
		);

		CREATE INDEX IF NOT EXISTS idx_likes_target ON likes(target_type, target_id);
		CREATE INDEX IF NOT EXISTS idx_likes_user ON likes(user_id);

		CREATE TABLE IF NOT EXISTS subscriptions (
			subscriber_id TEXT NOT NULL REFERENCES users(id),
			channel_id    TEXT NOT NULL REFERENCES users(id),
			created_at    TEXT NOT NULL,

			PRIMARY KEY (subscriber_id, channel_id)
		);

		CREATE INDEX IF NOT EXISTS idx_subscriptions_channel ON subscriptions(channel_id);

		CREATE TABLE IF NOT EXISTS watch_history (
			user_id    TEXT NOT NULL REFERENCES users(id),
			video_id   TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
			watched_at TEXT NOT NULL,

			PRIMARY KEY (user_id, video_id)
		);

		CREATE INDEX IF NOT EXISTS idx_watch_history_user ON watch_history(user_id, watched_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// formatTime renders a timestamp the way every table stores it
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime reads a stored RFC3339 timestamp
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Ensure SQLiteStore implements the combined Store interface
var _ Store = (*SQLiteStore)(nil)
