package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds0903/post-bot/internal/model"
	"github.com/ds0903/post-bot/internal/storage"
)

// fakePostStore is an in-memory PostStore with CAS semantics on Decide.
type fakePostStore struct {
	nextID int64
	posts  map[int64]*model.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{nextID: 1, posts: map[int64]*model.Post{}}
}

func (f *fakePostStore) Insert(_ context.Context, userID int64, username, channel string, content model.Content) (int64, error) {
	if err := content.Validate(); err != nil {
		return 0, err
	}
	id := f.nextID
	f.nextID++
	f.posts[id] = &model.Post{
		ID: id, UserID: userID, Username: username, Channel: channel,
		Content: content, Status: model.StatusPending, CreatedAt: time.Now(),
	}
	return id, nil
}

func (f *fakePostStore) GetByID(_ context.Context, id int64) (model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return model.Post{}, storage.ErrNotFound
	}
	return *p, nil
}

func (f *fakePostStore) PendingByChannel(_ context.Context, channel string) ([]model.Post, error) {
	var out []model.Post
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.posts[id]; ok && p.Status == model.StatusPending && p.Channel == channel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostStore) ChannelsWithPending(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.posts {
		if p.Status == model.StatusPending && !seen[p.Channel] {
			seen[p.Channel] = true
			out = append(out, p.Channel)
		}
	}
	return out, nil
}

func (f *fakePostStore) History(_ context.Context, limit int) ([]model.Post, error) {
	var out []model.Post
	for _, p := range f.posts {
		if p.Status != model.StatusPending && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostStore) Decide(_ context.Context, id int64, status string) error {
	p, ok := f.posts[id]
	if !ok {
		return storage.ErrNotFound
	}
	if p.Status != model.StatusPending {
		return storage.ErrAlreadyDecided
	}
	now := time.Now()
	p.Status = status
	p.ProcessedAt = &now
	return nil
}

// fakePublisher records deliveries and can be primed to fail.
type fakePublisher struct {
	fail      error
	delivered []string
}

func (f *fakePublisher) Publish(_ context.Context, destination string, _ model.Content) error {
	if f.fail != nil {
		return f.fail
	}
	f.delivered = append(f.delivered, destination)
	return nil
}

func newQueueFixture(t *testing.T) (*Queue, *fakePostStore, *fakeChannelStore, *fakePublisher) {
	t.Helper()
	posts := newFakePostStore()
	channels := newFakeChannelStore()
	pub := &fakePublisher{}
	reg := NewRegistry(channels)
	require.NoError(t, reg.Add(context.Background(), "Daily News", "@dailynews"))
	return NewQueue(posts, reg, pub), posts, channels, pub
}

func TestQueue_Submit(t *testing.T) {
	ctx := context.Background()
	q, posts, _, _ := newQueueFixture(t)

	id, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Text: "hello"})
	require.NoError(t, err)

	got, err := posts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, "hello", got.Content.Text)
}

func TestQueue_SubmitUnknownChannel(t *testing.T) {
	ctx := context.Background()
	q, _, _, _ := newQueueFixture(t)

	_, err := q.Submit(ctx, 42, "alice", "Ghost", model.Content{Text: "hello"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQueue_ApprovePublishesToCurrentDestination(t *testing.T) {
	ctx := context.Background()
	q, _, channels, pub := newQueueFixture(t)

	id, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Photo: "p1", Caption: "c"})
	require.NoError(t, err)

	// Destination changes between submission and review; the decision must
	// pick up the current identifier.
	channels.channels["Daily News"] = "@relocated"

	post, err := q.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, post.Status)
	assert.Equal(t, []string{"@relocated"}, pub.delivered)
}

func TestQueue_ApprovePublishFailureLeavesPending(t *testing.T) {
	ctx := context.Background()
	q, posts, _, pub := newQueueFixture(t)

	id, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Text: "hello"})
	require.NoError(t, err)

	pub.fail = errors.New("telegram: 502")
	_, err = q.Approve(ctx, id)
	require.Error(t, err)

	got, err := posts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	// Retry succeeds once the transport recovers.
	pub.fail = nil
	post, err := q.Approve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, post.Status)
}

func TestQueue_ApproveTwice(t *testing.T) {
	ctx := context.Background()
	q, _, _, pub := newQueueFixture(t)

	id, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Text: "hello"})
	require.NoError(t, err)

	_, err = q.Approve(ctx, id)
	require.NoError(t, err)

	_, err = q.Approve(ctx, id)
	assert.ErrorIs(t, err, storage.ErrAlreadyDecided)
	assert.Len(t, pub.delivered, 1)
}

func TestQueue_RejectDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	q, posts, _, pub := newQueueFixture(t)

	id, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Text: "hello"})
	require.NoError(t, err)

	post, err := q.Reject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, post.Status)
	assert.Empty(t, pub.delivered)

	got, err := posts.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.ProcessedAt)
}

func TestQueue_ApproveChannelGone(t *testing.T) {
	ctx := context.Background()
	q, posts, channels, _ := newQueueFixture(t)

	id, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Text: "hello"})
	require.NoError(t, err)

	delete(channels.channels, "Daily News")

	_, err = q.Approve(ctx, id)
	assert.ErrorIs(t, err, ErrChannelGone)

	got, err := posts.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestQueue_ChannelsWithPending(t *testing.T) {
	ctx := context.Background()
	q, _, channels, _ := newQueueFixture(t)
	channels.channels["Tech"] = "@techfeed"

	_, err := q.Submit(ctx, 42, "alice", "Daily News", model.Content{Text: "a"})
	require.NoError(t, err)
	_, err = q.Submit(ctx, 43, "bob", "Tech", model.Content{Text: "b"})
	require.NoError(t, err)

	got, err := q.ChannelsWithPending(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Daily News", "Tech"}, got)
}
