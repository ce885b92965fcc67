package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	coretg "github.com/ds0903/post-bot/core/telegram"
	"github.com/ds0903/post-bot/internal/model"
	"github.com/ds0903/post-bot/internal/session"
)

// promptContext is a minimal tele.Context for exercising text handlers; it
// records what was sent. Anything else the handler touches panics through
// the embedded nil interface.
type promptContext struct {
	tele.Context
	text string
	sent []string
}

func (f *promptContext) Text() string { return f.text }

func (f *promptContext) Send(what interface{}, _ ...interface{}) error {
	f.sent = append(f.sent, fmt.Sprint(what))
	return nil
}

func TestAlbumSummary(t *testing.T) {
	cases := []struct {
		items []model.AlbumItem
		want  string
	}{
		{
			items: []model.AlbumItem{{Kind: model.MediaPhoto}, {Kind: model.MediaPhoto}},
			want:  "2 фото",
		},
		{
			items: []model.AlbumItem{{Kind: model.MediaVideo}},
			want:  "1 відео",
		},
		{
			items: []model.AlbumItem{{Kind: model.MediaPhoto}, {Kind: model.MediaVideo}, {Kind: model.MediaVideo}},
			want:  "1 фото та 2 відео",
		},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, albumSummary(tc.items))
	}
}

func TestUsernameOf(t *testing.T) {
	assert.Equal(t, "без_ніка", usernameOf(nil))
	assert.Equal(t, "без_ніка", usernameOf(&tele.User{ID: 1}))
	assert.Equal(t, "alice", usernameOf(&tele.User{ID: 1, Username: "alice"}))
}

func TestModerationKeyboardRoundTrip(t *testing.T) {
	markup := moderationKeyboard(42)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)

	approve := markup.InlineKeyboard[0][0]
	assert.Equal(t, cbApprove, approve.Unique)
	assert.Equal(t, "42", approve.Data)

	// Telegram echoes the button back as "\f<unique>|<payload>".
	key, payload := coretg.ParseCallbackData(&tele.Callback{Data: "\f" + cbApprove + "|42"})
	assert.Equal(t, cbApprove, key)
	assert.Equal(t, "42", payload)

	key, payload = coretg.ParseCallbackData(&tele.Callback{Unique: cbReject, Data: "42"})
	assert.Equal(t, cbReject, key)
	assert.Equal(t, "42", payload)
}

func TestStructuredStatesRepromptOnUnknownInput(t *testing.T) {
	b := &Bot{}
	cases := []struct {
		name    string
		state   session.State
		handler func(context.Context, tele.Context, *session.Session) error
		want    string
	}{
		{"admin panel", session.StateAdminPanel, b.adminPanelText, msgUnknownAction},
		{"channels menu", session.StateChannelsMenu, b.channelsMenuText, msgUnknownAction},
		{"delete confirmation", session.StateChannelsConfirmDelete, b.channelDeleteDecision, msgConfirmOrCancel},
		{"spam menu", session.StateSpamMenu, b.spamMenuText, msgUnknownAction},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &promptContext{text: "не кнопка"}
			s := &session.Session{State: tc.state, Admin: true, EditTarget: "Daily News"}

			require.NoError(t, tc.handler(context.Background(), c, s))
			assert.Equal(t, tc.state, s.State, "state must not change")
			assert.Equal(t, "Daily News", s.EditTarget)
			require.Len(t, c.sent, 1)
			assert.Equal(t, tc.want, c.sent[0])
		})
	}
}

func TestBuildAlbumCaptionOnFirstItem(t *testing.T) {
	album := buildAlbum([]model.AlbumItem{
		{Kind: model.MediaPhoto, FileID: "p1"},
		{Kind: model.MediaVideo, FileID: "v1"},
	}, "caption")

	require.Len(t, album, 2)
	photo, ok := album[0].(*tele.Photo)
	require.True(t, ok)
	assert.Equal(t, "p1", photo.FileID)
	assert.Equal(t, "caption", photo.Caption)

	video, ok := album[1].(*tele.Video)
	require.True(t, ok)
	assert.Equal(t, "v1", video.FileID)
	assert.Empty(t, video.Caption)
}
