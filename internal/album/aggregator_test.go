package album

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds0903/post-bot/internal/model"
)

type capture struct {
	mu    sync.Mutex
	fired []model.Content
	users []int64
}

func (c *capture) callback(userID int64, content model.Content) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, userID)
	c.fired = append(c.fired, content)
}

func (c *capture) snapshot() []model.Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Content, len(c.fired))
	copy(out, c.fired)
	return out
}

func photo(id string) model.AlbumItem {
	return model.AlbumItem{Kind: model.MediaPhoto, FileID: id}
}

func TestAggregator_CoalescesFragments(t *testing.T) {
	c := &capture{}
	a := New(100*time.Millisecond, c.callback)

	a.Add(42, "g1", photo("p1"), "")
	time.Sleep(20 * time.Millisecond)
	a.Add(42, "g1", photo("p2"), "caption")

	// Quiet period elapses once after the last fragment.
	time.Sleep(250 * time.Millisecond)

	fired := c.snapshot()
	require.Len(t, fired, 1)
	require.Len(t, fired[0].Album, 2)
	assert.Equal(t, "p1", fired[0].Album[0].FileID)
	assert.Equal(t, "p2", fired[0].Album[1].FileID)
	assert.Equal(t, "caption", fired[0].Caption)
	assert.Equal(t, model.ContentAlbum, fired[0].Kind())
}

func TestAggregator_ReArmsOnEachFragment(t *testing.T) {
	c := &capture{}
	a := New(100*time.Millisecond, c.callback)

	// Keep feeding fragments faster than the debounce; nothing may fire
	// until the stream stops.
	for i := 0; i < 5; i++ {
		a.Add(42, "g1", photo("p"), "")
		time.Sleep(40 * time.Millisecond)
	}
	assert.Empty(t, c.snapshot())

	time.Sleep(250 * time.Millisecond)
	fired := c.snapshot()
	require.Len(t, fired, 1)
	assert.Len(t, fired[0].Album, 5)
}

func TestAggregator_LastCaptionWins(t *testing.T) {
	c := &capture{}
	a := New(50*time.Millisecond, c.callback)

	a.Add(42, "g1", photo("p1"), "first")
	a.Add(42, "g1", photo("p2"), "")
	a.Add(42, "g1", photo("p3"), "second")

	time.Sleep(200 * time.Millisecond)

	fired := c.snapshot()
	require.Len(t, fired, 1)
	assert.Equal(t, "second", fired[0].Caption)
}

func TestAggregator_GroupsAreIndependent(t *testing.T) {
	c := &capture{}
	a := New(50*time.Millisecond, c.callback)

	a.Add(42, "g1", photo("a1"), "")
	a.Add(43, "g2", photo("b1"), "")
	a.Add(43, "g2", photo("b2"), "")

	time.Sleep(200 * time.Millisecond)

	fired := c.snapshot()
	require.Len(t, fired, 2)
	sizes := map[int]bool{len(fired[0].Album): true, len(fired[1].Album): true}
	assert.True(t, sizes[1] && sizes[2])
}

func TestAggregator_ExpiredTimerLosesToReArm(t *testing.T) {
	c := &capture{}
	a := New(time.Hour, c.callback)
	k := key{userID: 42, groupID: "g1"}

	a.Add(42, "g1", photo("p1"), "")
	a.Add(42, "g1", photo("p2"), "")

	// The first fragment's timer expired before Add could stop it and its
	// callback only now acquires the lock. It carries a stale sequence and
	// must not split the album.
	a.fire(k, 1)
	assert.Empty(t, c.snapshot())

	a.Add(42, "g1", photo("p3"), "")
	a.fire(k, 3)

	fired := c.snapshot()
	require.Len(t, fired, 1)
	require.Len(t, fired[0].Album, 3)
	assert.Equal(t, "p3", fired[0].Album[2].FileID)

	// The buffer is gone; even the matching sequence cannot fire twice.
	a.fire(k, 3)
	assert.Len(t, c.snapshot(), 1)
}

func TestAggregator_DiscardUserCancelsPending(t *testing.T) {
	c := &capture{}
	a := New(50*time.Millisecond, c.callback)

	a.Add(42, "g1", photo("p1"), "")
	a.DiscardUser(42)

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, c.snapshot())
}

func TestAggregator_FlushMaterializesImmediately(t *testing.T) {
	c := &capture{}
	a := New(time.Hour, c.callback)

	a.Add(42, "g1", photo("p1"), "cap")
	a.Flush()

	fired := c.snapshot()
	require.Len(t, fired, 1)
	assert.Equal(t, "cap", fired[0].Caption)
}
