// Package session tracks per-user conversation state. Every user moves
// through a small state machine; the manager serializes update handling per
// user so state transitions observe arrival order.
package session

import (
	"sync"

	"github.com/ds0903/post-bot/internal/model"
)

// State names a position in the per-user conversation flow.
type State string

// Submitter flow states.
const (
	StateIdle            State = "idle"
	StateAwaitingChannel State = "awaiting_channel"
	StateAwaitingContent State = "awaiting_content"
	StateConfirming      State = "confirming"
)

// Reviewer flow states.
const (
	StateAdminPanel   State = "admin_panel"
	StateQueueChannel State = "queue_channel_select"

	StateChannelsMenu          State = "channels_menu"
	StateChannelsSelect        State = "channels_select"
	StateChannelsConfirmDelete State = "channels_confirm_delete"
	StateChannelsAddName       State = "channels_add_name"
	StateChannelsAddID         State = "channels_add_id"
	StateChannelsEditName      State = "channels_edit_name"
	StateChannelsEditID        State = "channels_edit_id"

	StateSpamMenu  State = "spam_menu"
	StateSpamDelay State = "spam_delay"
)

// ChannelAction names the pending management operation while the reviewer
// walks the channel sub-flow.
type ChannelAction string

const (
	ActionNone   ChannelAction = ""
	ActionEdit   ChannelAction = "edit"
	ActionDelete ChannelAction = "delete"
)

// Session is the mutable conversation state of one user. Access it only
// under the per-user lock handed out by Manager.Do.
type Session struct {
	State State

	// Submitter draft.
	Channel string
	Draft   model.Content

	// Reviewer login result; survives state transitions until logout.
	Admin bool

	// Channel-management scratch space.
	Action     ChannelAction
	EditTarget string
	DraftName  string
}

// Reset drops everything except login, returning the user to idle.
func (s *Session) Reset() {
	admin := s.Admin
	*s = Session{State: StateIdle, Admin: admin}
}

// ResetDraft clears the in-progress submission but keeps the chosen channel.
func (s *Session) ResetDraft() {
	s.Draft = model.Content{}
}

// Manager owns all sessions. Lookups are guarded by a map lock; update
// handling for one user is serialized by that user's own lock, so two
// updates from the same user never interleave while users stay independent.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*entry
}

type entry struct {
	lock    sync.Mutex
	session Session
}

func NewManager() *Manager {
	return &Manager{sessions: map[int64]*entry{}}
}

func (m *Manager) get(userID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[userID]
	if !ok {
		e = &entry{session: Session{State: StateIdle}}
		m.sessions[userID] = e
	}
	return e
}

// Do runs fn with exclusive access to the user's session. Mutations made by
// fn persist.
func (m *Manager) Do(userID int64, fn func(s *Session)) {
	e := m.get(userID)
	e.lock.Lock()
	defer e.lock.Unlock()
	fn(&e.session)
}

// Peek returns a copy of the user's session without blocking other updates
// beyond the copy itself.
func (m *Manager) Peek(userID int64) Session {
	e := m.get(userID)
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.session
}

// Drop discards the user's session entirely.
func (m *Manager) Drop(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
