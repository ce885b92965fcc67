package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds0903/post-bot/internal/model"
)

func TestPostRepo_Insert(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("serializes content to JSONB", func(t *testing.T) {
		content := model.Content{Photo: "file-1", Caption: "hello"}

		mock.ExpectQuery(`INSERT INTO posts \(user_id, username, channel, message_data, status\)`).
			WithArgs(int64(42), "alice", "Daily News", []byte(`{"photo":"file-1","caption":"hello"}`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		id, err := store.Posts.Insert(ctx, 42, "alice", "Daily News", content)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty content before touching the database", func(t *testing.T) {
		_, err := store.Posts.Insert(ctx, 42, "alice", "Daily News", model.Content{})
		assert.ErrorIs(t, err, model.ErrEmptyContent)
	})
}

func TestPostRepo_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("decodes album content", func(t *testing.T) {
		raw := []byte(`{"media_group":[{"type":"photo","file_id":"p1"},{"type":"video","file_id":"v1"}],"caption":"cap"}`)
		rows := sqlmock.NewRows([]string{"id", "user_id", "username", "channel", "message_data", "status", "created_at", "processed_at"}).
			AddRow(7, 42, "alice", "Daily News", raw, model.StatusPending, now, nil)

		mock.ExpectQuery(`SELECT .+ FROM posts WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		post, err := store.Posts.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, model.ContentAlbum, post.Content.Kind())
		require.Len(t, post.Content.Album, 2)
		assert.Equal(t, "v1", post.Content.Album[1].FileID)
		assert.Equal(t, "cap", post.Content.Caption)
		assert.Nil(t, post.ProcessedAt)
	})

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM posts WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.Posts.GetByID(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostRepo_PendingByChannel(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "username", "channel", "message_data", "status", "created_at", "processed_at"}).
		AddRow(1, 42, "alice", "Daily News", []byte(`{"text":"first"}`), model.StatusPending, now.Add(-time.Hour), nil).
		AddRow(2, 43, "bob", "Daily News", []byte(`{"text":"second"}`), model.StatusPending, now, nil)

	mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE status = 'pending' AND channel = \$1\s+ORDER BY created_at ASC`).
		WithArgs("Daily News").
		WillReturnRows(rows)

	posts, err := store.Posts.PendingByChannel(ctx, "Daily News")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Content.Text)
	assert.Equal(t, "second", posts[1].Content.Text)
}

func TestPostRepo_ChannelsWithPending(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT DISTINCT channel\s+FROM posts\s+WHERE status = 'pending'`).
		WillReturnRows(sqlmock.NewRows([]string{"channel"}).AddRow("Daily News").AddRow("Tech"))

	channels, err := store.Posts.ChannelsWithPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Daily News", "Tech"}, channels)
}

func TestPostRepo_History(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "username", "channel", "message_data", "status", "created_at", "processed_at"}).
		AddRow(5, 42, "alice", "Tech", []byte(`{"text":"latest"}`), model.StatusApproved, now.Add(-time.Hour), now)

	mock.ExpectQuery(`SELECT .+ FROM posts\s+WHERE status IN \('approved', 'rejected'\)\s+ORDER BY processed_at DESC\s+LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(rows)

	posts, err := store.Posts.History(ctx, 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, model.StatusApproved, posts[0].Status)
	require.NotNil(t, posts[0].ProcessedAt)
}

func TestPostRepo_LastSubmissionTime(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("has submissions", func(t *testing.T) {
		mock.ExpectQuery(`SELECT created_at\s+FROM posts\s+WHERE user_id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

		ts, ok, err := store.Posts.LastSubmissionTime(ctx, 42)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.WithinDuration(t, now, ts, time.Second)
	})

	t.Run("never submitted", func(t *testing.T) {
		mock.ExpectQuery(`SELECT created_at\s+FROM posts\s+WHERE user_id = \$1`).
			WithArgs(int64(43)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}))

		_, ok, err := store.Posts.LastSubmissionTime(ctx, 43)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestPostRepo_Decide(t *testing.T) {
	ctx := context.Background()

	t.Run("pending post advances", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE posts\s+SET status = \$2, processed_at = CURRENT_TIMESTAMP\s+WHERE id = \$1 AND status = 'pending'`).
			WithArgs(int64(7), model.StatusApproved).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Posts.Decide(ctx, 7, model.StatusApproved)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second decision loses the race", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE posts`).
			WithArgs(int64(7), model.StatusRejected).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM posts WHERE id = \$1\)`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := store.Posts.Decide(ctx, 7, model.StatusRejected)
		assert.ErrorIs(t, err, ErrAlreadyDecided)
	})

	t.Run("unknown post", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectExec(`UPDATE posts`).
			WithArgs(int64(99), model.StatusApproved).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM posts WHERE id = \$1\)`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := store.Posts.Decide(ctx, 99, model.StatusApproved)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid terminal status", func(t *testing.T) {
		store, _ := newMockStore(t)

		err := store.Posts.Decide(ctx, 7, model.StatusPending)
		assert.Error(t, err)
	})
}
