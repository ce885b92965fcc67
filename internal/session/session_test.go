package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ds0903/post-bot/internal/model"
)

func TestManager_DoPersistsMutations(t *testing.T) {
	m := NewManager()

	m.Do(42, func(s *Session) {
		s.State = StateAwaitingContent
		s.Channel = "Daily News"
	})

	got := m.Peek(42)
	assert.Equal(t, StateAwaitingContent, got.State)
	assert.Equal(t, "Daily News", got.Channel)
}

func TestManager_UnknownUserStartsIdle(t *testing.T) {
	m := NewManager()
	assert.Equal(t, StateIdle, m.Peek(99).State)
}

func TestManager_UsersAreIndependent(t *testing.T) {
	m := NewManager()

	m.Do(1, func(s *Session) { s.State = StateConfirming })
	m.Do(2, func(s *Session) { s.State = StateAdminPanel })

	assert.Equal(t, StateConfirming, m.Peek(1).State)
	assert.Equal(t, StateAdminPanel, m.Peek(2).State)
}

func TestManager_Drop(t *testing.T) {
	m := NewManager()
	m.Do(42, func(s *Session) { s.State = StateAdminPanel; s.Admin = true })

	m.Drop(42)

	got := m.Peek(42)
	assert.Equal(t, StateIdle, got.State)
	assert.False(t, got.Admin)
}

func TestSession_ResetKeepsLogin(t *testing.T) {
	s := Session{
		State:   StateConfirming,
		Channel: "Daily News",
		Draft:   model.Content{Text: "draft"},
		Admin:   true,
	}

	s.Reset()

	assert.Equal(t, StateIdle, s.State)
	assert.Empty(t, s.Channel)
	assert.Equal(t, model.ContentNone, s.Draft.Kind())
	assert.True(t, s.Admin)
}

func TestManager_SerializesSameUser(t *testing.T) {
	m := NewManager()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.Do(42, func(s *Session) {
				if s.Draft.Text == "" {
					s.Draft.Text = "x"
				} else {
					s.Draft.Text += "x"
				}
			})
		}()
	}
	wg.Wait()

	assert.Len(t, m.Peek(42).Draft.Text, n)
}
