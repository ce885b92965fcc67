package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ds0903/post-bot/internal/model"
)

// PostRepo persists moderation-queue entries.
type PostRepo struct {
	db *sqlx.DB
}

type postRow struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Username    string     `db:"username"`
	Channel     string     `db:"channel"`
	MessageData []byte     `db:"message_data"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}

func (row postRow) toModel() (model.Post, error) {
	var content model.Content
	if err := json.Unmarshal(row.MessageData, &content); err != nil {
		return model.Post{}, fmt.Errorf("decode post %d content: %w", row.ID, err)
	}
	return model.Post{
		ID:          row.ID,
		UserID:      row.UserID,
		Username:    row.Username,
		Channel:     row.Channel,
		Content:     content,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		ProcessedAt: row.ProcessedAt,
	}, nil
}

const postColumns = `id, user_id, username, channel, message_data, status, created_at, processed_at`

// Insert appends a pending post and returns its identifier.
func (r *PostRepo) Insert(ctx context.Context, userID int64, username, channel string, content model.Content) (int64, error) {
	if err := content.Validate(); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return 0, fmt.Errorf("encode post content: %w", err)
	}

	var id int64
	err = r.db.GetContext(ctx, &id, `
		INSERT INTO posts (user_id, username, channel, message_data, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id`,
		userID, username, channel, raw,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	return id, nil
}

// GetByID returns a single post.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (model.Post, error) {
	var row postRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("get post: %w", err)
	}
	return row.toModel()
}

// PendingByChannel returns pending posts for a channel, oldest first.
func (r *PostRepo) PendingByChannel(ctx context.Context, channel string) ([]model.Post, error) {
	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+postColumns+`
		FROM posts
		WHERE status = 'pending' AND channel = $1
		ORDER BY created_at ASC`, channel)
	if err != nil {
		return nil, fmt.Errorf("pending posts: %w", err)
	}
	return rowsToModels(rows)
}

// ChannelsWithPending returns the distinct channels holding at least one
// pending post, sorted by name.
func (r *PostRepo) ChannelsWithPending(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.SelectContext(ctx, &out, `
		SELECT DISTINCT channel
		FROM posts
		WHERE status = 'pending'
		ORDER BY channel`)
	if err != nil {
		return nil, fmt.Errorf("channels with pending: %w", err)
	}
	return out, nil
}

// History returns decided posts, most recently processed first.
func (r *PostRepo) History(ctx context.Context, limit int) ([]model.Post, error) {
	var rows []postRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+postColumns+`
		FROM posts
		WHERE status IN ('approved', 'rejected')
		ORDER BY processed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("posts history: %w", err)
	}
	return rowsToModels(rows)
}

// LastSubmissionTime returns the creation time of the user's most recent
// post. The second return value is false when the user has never submitted.
func (r *PostRepo) LastSubmissionTime(ctx context.Context, userID int64) (time.Time, bool, error) {
	var ts time.Time
	err := r.db.GetContext(ctx, &ts, `
		SELECT created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last submission time: %w", err)
	}
	return ts, true, nil
}

// Decide moves a pending post to a terminal status and stamps processed_at.
// The update is a compare-and-swap on status: if the post has already been
// decided the call returns ErrAlreadyDecided, if it does not exist
// ErrNotFound.
func (r *PostRepo) Decide(ctx context.Context, id int64, status string) error {
	if status != model.StatusApproved && status != model.StatusRejected {
		return fmt.Errorf("decide post: invalid terminal status %q", status)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET status = $2, processed_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		return fmt.Errorf("decide post: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("decide post: %w", err)
	}
	if exists {
		return ErrAlreadyDecided
	}
	return ErrNotFound
}

func rowsToModels(rows []postRow) ([]model.Post, error) {
	out := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
