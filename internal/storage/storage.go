// Package storage implements the Postgres repositories behind the
// moderation pipeline: users, admins, channels, posts, and spam settings.
package storage

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrNotFound reports that the requested record does not exist.
	// Expected and recoverable; distinct from transport faults.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateChannel reports an insert or rename targeting an
	// already-taken channel name.
	ErrDuplicateChannel = errors.New("storage: channel name already exists")

	// ErrAlreadyDecided reports a decision attempt on a post that has
	// already left the pending status.
	ErrAlreadyDecided = errors.New("storage: post already decided")
)

// Store bundles all repositories over a single connection pool.
type Store struct {
	Users    *UserRepo
	Admins   *AdminRepo
	Channels *ChannelRepo
	Posts    *PostRepo
	Settings *SettingsRepo
}

// New constructs the repository set.
func New(db *sqlx.DB) *Store {
	return &Store{
		Users:    &UserRepo{db: db},
		Admins:   &AdminRepo{db: db},
		Channels: &ChannelRepo{db: db},
		Posts:    &PostRepo{db: db},
		Settings: &SettingsRepo{db: db},
	}
}

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
