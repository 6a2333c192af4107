// ABOUTME: Tweet store methods for the community-post feature
// ABOUTME: CRUD over the tweets table plus per-user listing

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateTweet creates a new tweet.
func (s *SQLiteStore) CreateTweet(ctx context.Context, tweet *Tweet) error {
	query := `
		INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		tweet.ID,
		tweet.OwnerUserID,
		tweet.Content,
		formatTime(tweet.CreatedAt),
		formatTime(tweet.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting tweet: %w", err)
	}

	s.logger.Debug("created tweet", "id", tweet.ID, "owner", tweet.OwnerUserID)
	return nil
}

// GetTweet retrieves a tweet by ID.
// Returns ErrNotFound if the tweet doesn't exist.
func (s *SQLiteStore) GetTweet(ctx context.Context, id string) (*Tweet, error) {
	query := `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE id = ?
	`

	tweet, err := scanTweetRow(s.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying tweet: %w", err)
	}
	return tweet, nil
}

func scanTweetRow(scan func(...any) error) (*Tweet, error) {
	var tweet Tweet
	var createdAtStr, updatedAtStr string

	if err := scan(
		&tweet.ID,
		&tweet.OwnerUserID,
		&tweet.Content,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return nil, err
	}

	var err error
	tweet.CreatedAt, err = parseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	tweet.UpdatedAt, err = parseTime(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &tweet, nil
}

// UpdateTweet replaces the tweet content.
// Returns ErrNotFound if the tweet doesn't exist.
func (s *SQLiteStore) UpdateTweet(ctx context.Context, tweet *Tweet) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE tweets SET content = ?, updated_at = ? WHERE id = ?`,
		tweet.Content, formatTime(time.Now()), tweet.ID)
	if err != nil {
		return fmt.Errorf("updating tweet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("updated tweet", "id", tweet.ID)
	return nil
}

// DeleteTweet removes a tweet and its likes.
func (s *SQLiteStore) DeleteTweet(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tweet: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE target_type = ? AND target_id = ?`, LikeTargetTweet, id); err != nil {
		return fmt.Errorf("deleting tweet likes: %w", err)
	}

	s.logger.Debug("deleted tweet", "id", id)
	return nil
}

// ListUserTweets retrieves all tweets by a user, newest first.
func (s *SQLiteStore) ListUserTweets(ctx context.Context, userID string) ([]*Tweet, error) {
	query := `
		SELECT id, owner_id, content, created_at, updated_at
		FROM tweets
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying tweets: %w", err)
	}
	defer rows.Close()

	var tweets []*Tweet
	for rows.Next() {
		tweet, err := scanTweetRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning tweet row: %w", err)
		}
		tweets = append(tweets, tweet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tweet rows: %w", err)
	}

	return tweets, nil
}
