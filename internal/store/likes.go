// ABOUTME: Like and subscription store methods, both modeled as toggles
// ABOUTME: Uniqueness is enforced by the schema so a double-like can't slip through

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ToggleLike creates the like if absent, removes it if present.
// Returns true when the like now exists.
func (s *SQLiteStore) ToggleLike(ctx context.Context, userID, targetType, targetID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = ? AND target_type = ? AND target_id = ?`,
		userID, targetType, targetID)
	if err != nil {
		return false, fmt.Errorf("deleting like: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		s.logger.Debug("removed like", "user_id", userID, "target", targetType+":"+targetID)
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO likes (id, user_id, target_type, target_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, targetType, targetID, formatTime(time.Now()))
	if err != nil {
		if isUniqueConstraintError(err) {
			// Concurrent like from the same user; it exists either way
			return true, nil
		}
		return false, fmt.Errorf("inserting like: %w", err)
	}

	s.logger.Debug("created like", "user_id", userID, "target", targetType+":"+targetID)
	return true, nil
}

// CountLikes returns the number of likes on a target.
func (s *SQLiteStore) CountLikes(ctx context.Context, targetType, targetID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_type = ? AND target_id = ?`,
		targetType, targetID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting likes: %w", err)
	}
	return count, nil
}

// ListLikedVideoIDs returns the IDs of videos the user has liked, newest like first.
func (s *SQLiteStore) ListLikedVideoIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target_id FROM likes WHERE user_id = ? AND target_type = 'video' ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying liked videos: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning liked video row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating liked video rows: %w", err)
	}
	return ids, nil
}

// ToggleSubscription subscribes if absent, unsubscribes if present.
// Returns true when the subscription now exists.
func (s *SQLiteStore) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?`,
		subscriberID, channelID)
	if err != nil {
		return false, fmt.Errorf("deleting subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		s.logger.Debug("removed subscription", "subscriber", subscriberID, "channel", channelID)
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (subscriber_id, channel_id, created_at) VALUES (?, ?, ?)`,
		subscriberID, channelID, formatTime(time.Now()))
	if err != nil {
		if isUniqueConstraintError(err) {
			return true, nil
		}
		return false, fmt.Errorf("inserting subscription: %w", err)
	}

	s.logger.Debug("created subscription", "subscriber", subscriberID, "channel", channelID)
	return true, nil
}

// CountSubscribers returns the number of subscribers of a channel.
func (s *SQLiteStore) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?`, channelID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting subscribers: %w", err)
	}
	return count, nil
}

// IsSubscribed reports whether subscriberID follows channelID.
func (s *SQLiteStore) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?`,
		subscriberID, channelID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking subscription: %w", err)
	}
	return count > 0, nil
}
