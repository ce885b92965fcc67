package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ds0903/post-bot/core/logger"
	"github.com/ds0903/post-bot/internal/model"
	"github.com/ds0903/post-bot/internal/storage"
)

// ErrChannelGone reports an approve attempt whose routing channel no longer
// exists. The post stays pending.
var ErrChannelGone = errors.New("service: channel no longer exists")

// PostStore is the persistence surface the queue needs.
type PostStore interface {
	Insert(ctx context.Context, userID int64, username, channel string, content model.Content) (int64, error)
	GetByID(ctx context.Context, id int64) (model.Post, error)
	PendingByChannel(ctx context.Context, channel string) ([]model.Post, error)
	ChannelsWithPending(ctx context.Context) ([]string, error)
	History(ctx context.Context, limit int) ([]model.Post, error)
	Decide(ctx context.Context, id int64, status string) error
}

// Publisher delivers approved content to an external destination. The
// destination is the canonical channel identifier, not the registry name.
type Publisher interface {
	Publish(ctx context.Context, destination string, content model.Content) error
}

// Queue is the moderation pipeline: submissions enter pending, a reviewer
// decision publishes or discards them. The destination identifier is
// resolved at decision time, so renames and id changes between submission
// and review take effect.
type Queue struct {
	posts    PostStore
	registry *Registry
	pub      Publisher
}

func NewQueue(posts PostStore, registry *Registry, pub Publisher) *Queue {
	return &Queue{posts: posts, registry: registry, pub: pub}
}

// Submit validates the routing channel and appends a pending post.
func (q *Queue) Submit(ctx context.Context, userID int64, username, channel string, content model.Content) (int64, error) {
	if _, err := q.registry.Get(ctx, channel); err != nil {
		return 0, err
	}
	id, err := q.posts.Insert(ctx, userID, username, channel, content)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, "queue", "post.submitted",
		slog.Int64("post_id", id),
		slog.Int64("user_id", userID),
		slog.String("channel", channel),
		slog.String("kind", string(content.Kind())),
	)
	return id, nil
}

// Pending returns the pending posts of a channel, oldest first.
func (q *Queue) Pending(ctx context.Context, channel string) ([]model.Post, error) {
	return q.posts.PendingByChannel(ctx, channel)
}

// ChannelsWithPending returns the channels that currently hold pending posts.
func (q *Queue) ChannelsWithPending(ctx context.Context) ([]string, error) {
	return q.posts.ChannelsWithPending(ctx)
}

// History returns decided posts, most recent first.
func (q *Queue) History(ctx context.Context, limit int) ([]model.Post, error) {
	return q.posts.History(ctx, limit)
}

// Get returns a single post.
func (q *Queue) Get(ctx context.Context, id int64) (model.Post, error) {
	return q.posts.GetByID(ctx, id)
}

// Approve publishes the post to its channel's current destination and marks
// it approved. Publishing happens before the status flip: a delivery failure
// leaves the post pending for a retry. Competing decisions surface as
// storage.ErrAlreadyDecided.
func (q *Queue) Approve(ctx context.Context, postID int64) (model.Post, error) {
	post, err := q.posts.GetByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if post.Status != model.StatusPending {
		return post, fmt.Errorf("approve post %d: %w", postID, storage.ErrAlreadyDecided)
	}

	ch, err := q.registry.Get(ctx, post.Channel)
	if err != nil {
		return post, fmt.Errorf("approve post %d: %w", postID, ErrChannelGone)
	}

	start := time.Now()
	if err := q.pub.Publish(ctx, ch.TelegramID, post.Content); err != nil {
		logger.Error(ctx, "queue", "post.publish_failed",
			slog.Int64("post_id", postID),
			slog.String("channel", post.Channel),
			slog.String("destination", ch.TelegramID),
			slog.String("error", err.Error()),
		)
		return post, fmt.Errorf("publish post %d: %w", postID, err)
	}

	if err := q.posts.Decide(ctx, postID, model.StatusApproved); err != nil {
		return post, err
	}
	post.Status = model.StatusApproved
	logger.Info(ctx, "queue", "post.approved",
		slog.Int64("post_id", postID),
		slog.String("channel", post.Channel),
		slog.String("destination", ch.TelegramID),
		slog.Duration("took", logger.Took(start)),
	)
	return post, nil
}

// Reject discards a pending post without publishing.
func (q *Queue) Reject(ctx context.Context, postID int64) (model.Post, error) {
	post, err := q.posts.GetByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if err := q.posts.Decide(ctx, postID, model.StatusRejected); err != nil {
		return post, err
	}
	post.Status = model.StatusRejected
	logger.Info(ctx, "queue", "post.rejected",
		slog.Int64("post_id", postID),
		slog.String("channel", post.Channel),
	)
	return post, nil
}
