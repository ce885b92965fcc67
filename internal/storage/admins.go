package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AdminRepo persists the reviewer allow-list.
type AdminRepo struct {
	db *sqlx.DB
}

// Upsert adds an identity to the allow-list or refreshes its username.
func (r *AdminRepo) Upsert(ctx context.Context, userID int64, username string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username`,
		userID, username,
	)
	if err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}

// Exists reports whether the identity is on the allow-list.
func (r *AdminRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("admin exists: %w", err)
	}
	return exists, nil
}
