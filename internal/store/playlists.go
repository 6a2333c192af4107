// ABOUTME: Playlist store methods including ordered playlist_videos membership
// ABOUTME: Duplicate adds and absent removes surface as typed errors for the API layer

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreatePlaylist creates a new, empty playlist.
func (s *SQLiteStore) CreatePlaylist(ctx context.Context, playlist *Playlist) error {
	query := `
		INSERT INTO playlists (id, owner_id, name, description, public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		playlist.ID,
		playlist.OwnerUserID,
		playlist.Name,
		playlist.Description,
		playlist.Public,
		formatTime(playlist.CreatedAt),
		formatTime(playlist.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting playlist: %w", err)
	}

	s.logger.Debug("created playlist", "id", playlist.ID, "owner", playlist.OwnerUserID)
	return nil
}

// GetPlaylist retrieves a playlist and its video IDs in position order.
// Returns ErrNotFound if the playlist doesn't exist.
func (s *SQLiteStore) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, public, created_at, updated_at
		FROM playlists
		WHERE id = ?
	`

	var playlist Playlist
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.OwnerUserID,
		&playlist.Name,
		&playlist.Description,
		&playlist.Public,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying playlist: %w", err)
	}

	playlist.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	playlist.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	playlist.VideoIDs, err = s.listPlaylistVideoIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &playlist, nil
}

func (s *SQLiteStore) listPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT video_id FROM playlist_videos WHERE playlist_id = ? ORDER BY position`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("querying playlist videos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning playlist video row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating playlist video rows: %w", err)
	}
	return ids, nil
}

// UpdatePlaylist updates name, description, and visibility.
// Returns ErrNotFound if the playlist doesn't exist.
func (s *SQLiteStore) UpdatePlaylist(ctx context.Context, playlist *Playlist) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE playlists SET name = ?, description = ?, public = ?, updated_at = ? WHERE id = ?`,
		playlist.Name, playlist.Description, playlist.Public, formatTime(time.Now()), playlist.ID)
	if err != nil {
		return fmt.Errorf("updating playlist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated playlist", "id", playlist.ID)
	return nil
}

// DeletePlaylist removes a playlist; membership rows cascade.
func (s *SQLiteStore) DeletePlaylist(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted playlist", "id", id)
	return nil
}

// ListUserPlaylists retrieves a user's playlists, optionally including private ones.
func (s *SQLiteStore) ListUserPlaylists(ctx context.Context, userID string, includePrivate bool) ([]*Playlist, error) {
	query := `
		SELECT id, owner_id, name, description, public, created_at, updated_at
		FROM playlists
		WHERE owner_id = ?
	`
	if !includePrivate {
		query += ` AND public = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*Playlist
	for rows.Next() {
		var playlist Playlist
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(
			&playlist.ID,
			&playlist.OwnerUserID,
			&playlist.Name,
			&playlist.Description,
			&playlist.Public,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist row: %w", err)
		}

		playlist.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		playlist.UpdatedAt, err = parseTime(updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}

		playlists = append(playlists, &playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating playlist rows: %w", err)
	}

	for _, p := range playlists {
		p.VideoIDs, err = s.listPlaylistVideoIDs(ctx, p.ID)
		if err != nil {
			return nil, err
		}
	}

	return playlists, nil
}

// AddVideoToPlaylist appends a video to the end of a playlist.
// Returns ErrVideoInPlaylist when the video is already a member.
func (s *SQLiteStore) AddVideoToPlaylist(ctx context.Context, playlistID, videoID string) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_videos WHERE playlist_id = ?), ?)
	`

	_, err := s.db.ExecContext(ctx, query, playlistID, videoID, playlistID, formatTime(time.Now()))
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrVideoInPlaylist
		}
		return fmt.Errorf("adding video to playlist: %w", err)
	}

	s.logger.Debug("added video to playlist", "playlist_id", playlistID, "video_id", videoID)
	return nil
}

// RemoveVideoFromPlaylist removes a membership row.
// Returns ErrVideoNotInPlaylist when there is nothing to remove.
func (s *SQLiteStore) RemoveVideoFromPlaylist(ctx context.Context, playlistID, videoID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM playlist_videos WHERE playlist_id = ? AND video_id = ?`, playlistID, videoID)
	if err != nil {
		return fmt.Errorf("removing video from playlist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVideoNotInPlaylist
	}

	s.logger.Debug("removed video from playlist", "playlist_id", playlistID, "video_id", videoID)
	return nil
}
