// ABOUTME: Video store methods with filtered listing, view counting, and dashboard stats
// ABOUTME: Ownership is recorded in owner_id and only ever read back from the row

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// videoColumns returns the video select list, optionally table-qualified
func videoColumns(alias string) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	cols := []string{"id", "owner_id", "title", "description", "video_url", "thumbnail_url", "duration", "views", "published", "created_at", "updated_at"}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += prefix + c
	}
	return out
}

// CreateVideo creates a new video record.
func (s *SQLiteStore) CreateVideo(ctx context.Context, video *Video) error {
	query := `
		INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration, views, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		video.ID,
		video.OwnerUserID,
		video.Title,
		video.Description,
		video.VideoURL,
		video.ThumbnailURL,
		video.Duration,
		video.Views,
		video.Published,
		formatTime(video.CreatedAt),
		formatTime(video.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting video: %w", err)
	}

	s.logger.Info("created video", "id", video.ID, "owner", video.OwnerUserID)
	return nil
}

// GetVideo retrieves a video by ID.
// Returns ErrNotFound if the video doesn't exist.
func (s *SQLiteStore) GetVideo(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+videoColumns("")+` FROM videos WHERE id = ?`, id)

	video, err := scanVideo(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying video: %w", err)
	}
	return video, nil
}

func scanVideo(scan func(...any) error) (*Video, error) {
	var video Video
	var createdAtStr, updatedAtStr string

	err := scan(
		&video.ID,
		&video.OwnerUserID,
		&video.Title,
		&video.Description,
		&video.VideoURL,
		&video.ThumbnailURL,
		&video.Duration,
		&video.Views,
		&video.Published,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	video.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	video.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &video, nil
}

func scanVideos(rows *sql.Rows) ([]*Video, error) {
	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning video row: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating video rows: %w", err)
	}
	return videos, nil
}

// UpdateVideo updates title, description, thumbnail, and published flag.
// Returns ErrNotFound if the video doesn't exist.
func (s *SQLiteStore) UpdateVideo(ctx context.Context, video *Video) error {
	query := `
		UPDATE videos
		SET title = ?, description = ?, thumbnail_url = ?, published = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		video.Title,
		video.Description,
		video.ThumbnailURL,
		video.Published,
		formatTime(time.Now()),
		video.ID,
	)
	if err != nil {
		return fmt.Errorf("updating video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated video", "id", video.ID)
	return nil
}

// DeleteVideo removes a video. Comments, playlist entries, and history
// rows referencing it go with it via foreign-key cascades.
func (s *SQLiteStore) DeleteVideo(ctx context.Context, id string) error {
	// Likes on the video's comments must go first: the comment rows are
	// gone once the cascade fires, taking the subselect with them.
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE target_type = ? AND target_id IN (SELECT id FROM comments WHERE video_id = ?)`,
		LikeTargetComment, id); err != nil {
		return fmt.Errorf("deleting comment likes: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting video: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	// Likes don't cascade (no FK to a single table), clean up explicitly
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE target_type = ? AND target_id = ?`, LikeTargetVideo, id); err != nil {
		return fmt.Errorf("deleting video likes: %w", err)
	}

	s.logger.Info("deleted video", "id", id)
	return nil
}

// ListVideos retrieves videos matching the filter, newest first by default.
func (s *SQLiteStore) ListVideos(ctx context.Context, filter VideoFilter) ([]*Video, error) {
	query := `SELECT ` + videoColumns("") + ` FROM videos WHERE 1=1`
	var args []any

	if filter.OwnerUserID != "" {
		query += ` AND owner_id = ?`
		args = append(args, filter.OwnerUserID)
	}
	if filter.PublishedOnly {
		query += ` AND published = 1`
	}
	if filter.Query != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}

	sortCol := "created_at"
	if filter.SortBy == "views" {
		sortCol = "views"
	}
	dir := "DESC"
	if filter.SortAsc {
		dir = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortCol, dir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	return scanVideos(rows)
}

// IncrementVideoViews bumps the view counter by one.
func (s *SQLiteStore) IncrementVideoViews(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("incrementing views: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetChannelStats aggregates dashboard numbers for one channel.
func (s *SQLiteStore) GetChannelStats(ctx context.Context, userID string) (*ChannelStats, error) {
	stats := &ChannelStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(views), 0)
		FROM videos
		WHERE owner_id = ?
	`, userID).Scan(&stats.TotalVideos, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("querying video stats: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?`, userID).
		Scan(&stats.TotalSubscribers)
	if err != nil {
		return nil, fmt.Errorf("querying subscriber count: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM likes l
		JOIN videos v ON v.id = l.target_id AND l.target_type = 'video'
		WHERE v.owner_id = ?
	`, userID).Scan(&stats.TotalLikes)
	if err != nil {
		return nil, fmt.Errorf("querying like count: %w", err)
	}

	return stats, nil
}
