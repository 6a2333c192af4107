// ABOUTME: Comment store methods with paginated per-video listing
// ABOUTME: CRUD over the comments table, owner_id read back for ownership checks

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateComment creates a new comment on a video.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerUserID,
		comment.Content,
		formatTime(comment.CreatedAt),
		formatTime(comment.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting comment: %w", err)
	}

	s.logger.Debug("created comment", "id", comment.ID, "video_id", comment.VideoID)
	return nil
}

// GetComment retrieves a comment by ID.
// Returns ErrNotFound if the comment doesn't exist.
func (s *SQLiteStore) GetComment(ctx context.Context, id string) (*Comment, error) {
	query := `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE id = ?
	`

	var comment Comment
	var createdAtStr, updatedAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerUserID,
		&comment.Content,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying comment: %w", err)
	}

	comment.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	comment.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &comment, nil
}

// UpdateComment replaces the comment content.
// Returns ErrNotFound if the comment doesn't exist.
func (s *SQLiteStore) UpdateComment(ctx context.Context, comment *Comment) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE comments SET content = ?, updated_at = ? WHERE id = ?`,
		comment.Content, formatTime(time.Now()), comment.ID)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated comment", "id", comment.ID)
	return nil
}

// DeleteComment removes a comment and its likes.
func (s *SQLiteStore) DeleteComment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE target_type = ? AND target_id = ?`, LikeTargetComment, id); err != nil {
		return fmt.Errorf("deleting comment likes: %w", err)
	}

	s.logger.Debug("deleted comment", "id", id)
	return nil
}

// ListVideoComments retrieves a page of comments for a video, oldest first.
func (s *SQLiteStore) ListVideoComments(ctx context.Context, videoID string, page, limit int) ([]*Comment, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	query := `
		SELECT id, video_id, owner_id, content, created_at, updated_at
		FROM comments
		WHERE video_id = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, videoID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var comment Comment
		var createdAtStr, updatedAtStr string

		if err := rows.Scan(
			&comment.ID,
			&comment.VideoID,
			&comment.OwnerUserID,
			&comment.Content,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}

		comment.CreatedAt, err = parseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		comment.UpdatedAt, err = parseTime(updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}

	return comments, nil
}
