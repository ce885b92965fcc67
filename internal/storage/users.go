package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserRepo persists submitter identities.
type UserRepo struct {
	db *sqlx.DB
}

// Upsert registers a user or refreshes their username.
func (r *UserRepo) Upsert(ctx context.Context, userID int64, username string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username`,
		userID, username,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
