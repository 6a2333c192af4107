// ABOUTME: User store methods including the single-slot refresh-token session field
// ABOUTME: Rotation uses one conditional UPDATE so a superseded token can never win

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const userColumns = `id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, created_at, updated_at`

// CreateUser creates a new user.
// Returns ErrUsernameExists or ErrEmailExists on uniqueness violations.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, full_name, avatar_url, cover_image_url, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.AvatarURL,
		user.CoverImageURL,
		user.PasswordHash,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(err.Error(), "users.email") {
				return ErrEmailExists
			}
			return ErrUsernameExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("created user", "id", user.ID, "username", user.Username)
	return nil
}

// GetUser retrieves a user by ID.
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var refreshToken sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CoverImageURL,
		&user.PasswordHash,
		&refreshToken,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if refreshToken.Valid {
		user.RefreshToken = &refreshToken.String
	}

	user.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	user.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &user, nil
}

// UpdateUser updates profile fields (full name, email, avatar, cover image).
// Returns ErrNotFound if the user doesn't exist.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET full_name = ?, email = ?, avatar_url = ?, cover_image_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		user.FullName,
		user.Email,
		user.AvatarURL,
		user.CoverImageURL,
		formatTime(time.Now()),
		user.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("updating user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated user", "id", user.ID)
	return nil
}

// UpdateUserPassword replaces the stored credential hash.
func (s *SQLiteStore) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Info("updated user password", "id", id)
	return nil
}

// SetRefreshToken unconditionally overwrites the session slot.
// The previous value stops matching from this point on, even though its
// signature stays valid until natural expiry.
func (s *SQLiteStore) SetRefreshToken(ctx context.Context, userID, token string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = ? WHERE id = ?`, token, userID)
	if err != nil {
		return fmt.Errorf("setting refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("set refresh token", "user_id", userID)
	return nil
}

// RotateRefreshToken swaps current for next in a single conditional UPDATE.
// The WHERE clause compares the slot by exact string equality, so two
// concurrent refreshes with the same token can never both succeed.
func (s *SQLiteStore) RotateRefreshToken(ctx context.Context, userID, current, next string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = ? WHERE id = ? AND refresh_token = ?`,
		next, userID, current)
	if err != nil {
		return fmt.Errorf("rotating refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a missing user from a superseded token
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking user existence: %w", err)
		}
		s.logger.Warn("refresh token mismatch", "user_id", userID)
		return ErrRefreshTokenMismatch
	}

	s.logger.Debug("rotated refresh token", "user_id", userID)
	return nil
}

// ClearRefreshToken empties the session slot (logout).
func (s *SQLiteStore) ClearRefreshToken(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET refresh_token = NULL WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("clearing refresh token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("cleared refresh token", "user_id", userID)
	return nil
}

// RecordWatch upserts a watch-history entry, bumping watched_at on rewatch.
func (s *SQLiteStore) RecordWatch(ctx context.Context, userID, videoID string) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = excluded.watched_at
	`

	_, err := s.db.ExecContext(ctx, query, userID, videoID, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("recording watch: %w", err)
	}
	return nil
}

// ListWatchHistory returns the user's most recently watched videos.
func (s *SQLiteStore) ListWatchHistory(ctx context.Context, userID string, limit int) ([]*Video, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + videoColumns("v") + `
		FROM watch_history h
		JOIN videos v ON v.id = h.video_id
		WHERE h.user_id = ?
		ORDER BY h.watched_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying watch history: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}
