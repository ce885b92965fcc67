package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ds0903/post-bot/internal/model"
)

// ChannelRepo persists routing targets. Rename and Delete carry the
// consistency obligations toward the posts table and run transactionally.
type ChannelRepo struct {
	db *sqlx.DB
}

// List returns all channels ordered by name.
func (r *ChannelRepo) List(ctx context.Context) ([]model.Channel, error) {
	var out []model.Channel
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, channel_name, channel_id, created_at, updated_at
		FROM channels
		ORDER BY channel_name`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return out, nil
}

// GetByName returns the channel with the exact (case-sensitive) name.
func (r *ChannelRepo) GetByName(ctx context.Context, name string) (model.Channel, error) {
	var ch model.Channel
	err := r.db.GetContext(ctx, &ch, `
		SELECT id, channel_name, channel_id, created_at, updated_at
		FROM channels
		WHERE channel_name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Channel{}, ErrNotFound
	}
	if err != nil {
		return model.Channel{}, fmt.Errorf("get channel: %w", err)
	}
	return ch, nil
}

// Insert creates a channel. A taken name yields ErrDuplicateChannel.
func (r *ChannelRepo) Insert(ctx context.Context, name, telegramID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO channels (channel_name, channel_id)
		VALUES ($1, $2)`, name, telegramID)
	if isUniqueViolation(err) {
		return ErrDuplicateChannel
	}
	if err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

// Rename changes the channel key and re-points every post referencing the
// old name, atomically. A taken target name yields ErrDuplicateChannel and
// a missing source name yields ErrNotFound.
func (r *ChannelRepo) Rename(ctx context.Context, oldName, newName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rename channel: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE channels
		SET channel_name = $1, updated_at = CURRENT_TIMESTAMP
		WHERE channel_name = $2`, newName, oldName)
	if isUniqueViolation(err) {
		return ErrDuplicateChannel
	}
	if err != nil {
		return fmt.Errorf("rename channel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE posts SET channel = $1 WHERE channel = $2`, newName, oldName); err != nil {
		return fmt.Errorf("rename channel: re-point posts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rename channel: commit: %w", err)
	}
	return nil
}

// UpdateID changes the external destination identifier of a channel.
func (r *ChannelRepo) UpdateID(ctx context.Context, name, telegramID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE channels
		SET channel_id = $1, updated_at = CURRENT_TIMESTAMP
		WHERE channel_name = $2`, telegramID, name)
	if err != nil {
		return fmt.Errorf("update channel id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the channel and cascade-deletes every post referencing it,
// atomically, returning the number of removed posts.
func (r *ChannelRepo) Delete(ctx context.Context, name string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete channel: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	posts, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE channel = $1`, name)
	if err != nil {
		return 0, fmt.Errorf("delete channel: cascade posts: %w", err)
	}
	removed, _ := posts.RowsAffected()

	res, err := tx.ExecContext(ctx, `DELETE FROM channels WHERE channel_name = $1`, name)
	if err != nil {
		return 0, fmt.Errorf("delete channel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete channel: commit: %w", err)
	}
	return removed, nil
}

// CleanupOrphans removes posts whose channel no longer exists and returns
// the number of removed rows.
func (r *ChannelRepo) CleanupOrphans(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM posts
		WHERE channel NOT IN (SELECT channel_name FROM channels)`)
	if err != nil {
		return 0, fmt.Errorf("cleanup orphans: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
