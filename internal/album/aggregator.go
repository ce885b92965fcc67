// Package album coalesces media-group fragments. Telegram delivers an album
// as independent messages sharing a group id; the aggregator buffers them
// and fires a single materialized draft after the group goes quiet.
package album

import (
	"sync"
	"time"

	"github.com/ds0903/post-bot/internal/model"
)

// DefaultDebounce is the quiet period after the last fragment before a
// buffered album materializes.
const DefaultDebounce = time.Second

type key struct {
	userID  int64
	groupID string
}

type buffer struct {
	items   []model.AlbumItem
	caption string
	timer   *time.Timer
	// seq increments on every re-arm; a timer callback carrying an older
	// value lost the Stop race and must not materialize.
	seq uint64
}

// Aggregator buffers album fragments per (user, group) and invokes the
// materialize callback once per completed album. The callback runs on the
// timer goroutine, after the buffer has been removed, so a slow callback
// never blocks fragment intake.
type Aggregator struct {
	debounce    time.Duration
	materialize func(userID int64, content model.Content)

	mu      sync.Mutex
	buffers map[key]*buffer
}

// New constructs an aggregator. A non-positive debounce falls back to
// DefaultDebounce.
func New(debounce time.Duration, materialize func(userID int64, content model.Content)) *Aggregator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Aggregator{
		debounce:    debounce,
		materialize: materialize,
		buffers:     map[key]*buffer{},
	}
}

// Add buffers one fragment and re-arms the debounce timer. Fragments keep
// arrival order; when several fragments carry a caption the last one wins.
func (a *Aggregator) Add(userID int64, groupID string, item model.AlbumItem, caption string) {
	k := key{userID: userID, groupID: groupID}

	a.mu.Lock()
	defer a.mu.Unlock()

	b, ok := a.buffers[k]
	if !ok {
		b = &buffer{}
		a.buffers[k] = b
	}
	b.items = append(b.items, item)
	if caption != "" {
		b.caption = caption
	}

	// Stop is best-effort: an already-expired timer's callback may be
	// blocked on the mutex right now. The sequence check in fire keeps
	// that stale callback from materializing the re-armed buffer.
	if b.timer != nil {
		b.timer.Stop()
	}
	b.seq++
	seq := b.seq
	b.timer = time.AfterFunc(a.debounce, func() { a.fire(k, seq) })
}

func (a *Aggregator) fire(k key, seq uint64) {
	a.mu.Lock()
	b, ok := a.buffers[k]
	if !ok || b.seq != seq {
		// Discarded or re-armed between timer expiry and lock acquisition.
		a.mu.Unlock()
		return
	}
	delete(a.buffers, k)
	a.mu.Unlock()

	a.materialize(k.userID, model.Content{Album: b.items, Caption: b.caption})
}

// DiscardUser drops every in-flight buffer of the user and cancels its
// timers. Used when the user restarts or leaves the submission flow.
func (a *Aggregator) DiscardUser(userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for k, b := range a.buffers {
		if k.userID != userID {
			continue
		}
		if b.timer != nil {
			b.timer.Stop()
		}
		delete(a.buffers, k)
	}
}

// Flush force-materializes every pending buffer. Intended for shutdown.
func (a *Aggregator) Flush() {
	type flushed struct {
		userID  int64
		content model.Content
	}

	a.mu.Lock()
	out := make([]flushed, 0, len(a.buffers))
	for k, b := range a.buffers {
		if b.timer != nil {
			b.timer.Stop()
		}
		out = append(out, flushed{k.userID, model.Content{Album: b.items, Caption: b.caption}})
		delete(a.buffers, k)
	}
	a.mu.Unlock()

	for _, f := range out {
		a.materialize(f.userID, f.content)
	}
}
