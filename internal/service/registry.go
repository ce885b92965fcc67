// Package service holds the moderation-pipeline business logic between the
// bot handlers and the Postgres repositories: channel registry, spam gate,
// and the moderation queue.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/ds0903/post-bot/internal/model"
)

// ErrBadChannelID reports a destination identifier that cannot be brought
// into canonical form.
var ErrBadChannelID = errors.New("service: invalid channel identifier")

// ErrBadChannelName reports an empty or whitespace-only channel name.
var ErrBadChannelName = errors.New("service: invalid channel name")

// ChannelStore is the persistence surface the registry needs.
type ChannelStore interface {
	List(ctx context.Context) ([]model.Channel, error)
	GetByName(ctx context.Context, name string) (model.Channel, error)
	Insert(ctx context.Context, name, telegramID string) error
	Rename(ctx context.Context, oldName, newName string) error
	UpdateID(ctx context.Context, name, telegramID string) error
	Delete(ctx context.Context, name string) (int64, error)
	CleanupOrphans(ctx context.Context) (int64, error)
}

// Registry fronts the channel table with an in-memory snapshot. Reads serve
// from the snapshot; every write goes through the store and reloads it, so
// handlers never observe a channel list older than the last mutation.
type Registry struct {
	store ChannelStore

	mu     sync.RWMutex
	loaded bool
	list   []model.Channel
}

func NewRegistry(store ChannelStore) *Registry {
	return &Registry{store: store}
}

// Refresh reloads the snapshot from the store.
func (r *Registry) Refresh(ctx context.Context) error {
	list, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.list = list
	r.loaded = true
	r.mu.Unlock()
	return nil
}

// Channels returns all channels ordered by name, loading the snapshot on
// first use.
func (r *Registry) Channels(ctx context.Context) ([]model.Channel, error) {
	r.mu.RLock()
	if r.loaded {
		out := make([]model.Channel, len(r.list))
		copy(out, r.list)
		r.mu.RUnlock()
		return out, nil
	}
	r.mu.RUnlock()

	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	return r.Channels(ctx)
}

// Get returns the channel with the exact name. Reads through to the store
// so a concurrent rename is never masked by the snapshot.
func (r *Registry) Get(ctx context.Context, name string) (model.Channel, error) {
	return r.store.GetByName(ctx, name)
}

// Add registers a channel under a canonicalized destination identifier.
func (r *Registry) Add(ctx context.Context, name, rawID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrBadChannelName
	}
	id, err := NormalizeChannelID(rawID)
	if err != nil {
		return err
	}
	if err := r.store.Insert(ctx, name, id); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Rename changes the channel key; queued and historical posts follow
// atomically in the store.
func (r *Registry) Rename(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrBadChannelName
	}
	if err := r.store.Rename(ctx, oldName, newName); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// UpdateID changes the destination identifier of an existing channel.
func (r *Registry) UpdateID(ctx context.Context, name, rawID string) error {
	id, err := NormalizeChannelID(rawID)
	if err != nil {
		return err
	}
	if err := r.store.UpdateID(ctx, name, id); err != nil {
		return err
	}
	return r.Refresh(ctx)
}

// Delete removes the channel and its posts, returning the removed-post count.
func (r *Registry) Delete(ctx context.Context, name string) (int64, error) {
	removed, err := r.store.Delete(ctx, name)
	if err != nil {
		return 0, err
	}
	return removed, r.Refresh(ctx)
}

// CleanupOrphans removes posts whose channel no longer exists.
func (r *Registry) CleanupOrphans(ctx context.Context) (int64, error) {
	return r.store.CleanupOrphans(ctx)
}

// ResolveParam maps a /start deep-link parameter to a channel. Underscores
// stand in for spaces. Matching is case-insensitive: exact name first, then
// unique-enough substring, then exact destination identifier. The boolean is
// false when nothing matched.
func (r *Registry) ResolveParam(ctx context.Context, param string) (model.Channel, bool, error) {
	channels, err := r.Channels(ctx)
	if err != nil {
		return model.Channel{}, false, err
	}

	want := strings.ToLower(strings.ReplaceAll(param, "_", " "))
	for _, ch := range channels {
		if strings.ToLower(ch.Name) == want {
			return ch, true, nil
		}
	}
	for _, ch := range channels {
		if strings.Contains(strings.ToLower(ch.Name), want) {
			return ch, true, nil
		}
	}
	for _, ch := range channels {
		if strings.EqualFold(ch.TelegramID, param) || strings.EqualFold(ch.TelegramID, "@"+param) {
			return ch, true, nil
		}
	}
	return model.Channel{}, false, nil
}

var numericChatID = regexp.MustCompile(`^-?\d+$`)

// NormalizeChannelID brings a destination identifier into canonical form:
// @handle for public channels (accepting bare handles and t.me links) or the
// raw numeric chat id for private ones.
func NormalizeChannelID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, prefix := range []string{"https://t.me/", "http://t.me/", "t.me/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = strings.TrimSuffix(s, "/")
	if s == "" || s == "@" {
		return "", ErrBadChannelID
	}
	if numericChatID.MatchString(s) {
		return s, nil
	}
	if !strings.HasPrefix(s, "@") {
		s = "@" + s
	}
	if strings.ContainsAny(s[1:], " \t@/") {
		return "", ErrBadChannelID
	}
	return s, nil
}
