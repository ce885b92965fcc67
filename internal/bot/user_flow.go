package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
	"github.com/ds0903/post-bot/internal/model"
	"github.com/ds0903/post-bot/internal/session"
	"github.com/ds0903/post-bot/internal/storage"
)

// handleStart registers the user and either resolves a deep-link channel
// parameter or offers the channel keyboard.
func (b *Bot) handleStart(c tele.Context) error {
	return b.withSession(c, func(ctx context.Context, s *session.Session) error {
		user := c.Sender()
		if err := b.store.Users.Upsert(ctx, user.ID, usernameOf(user)); err != nil {
			logger.Warn(ctx, "bot", "user.upsert_failed", slog.String("err", err.Error()))
		}
		s.Reset()
		b.albums.DiscardUser(user.ID)

		if param := strings.TrimSpace(c.Message().Payload); param != "" {
			ch, found, err := b.registry.ResolveParam(ctx, param)
			if err != nil {
				return err
			}
			if !found {
				return c.Send(msgDeepLinkNotFound, &tele.ReplyMarkup{RemoveKeyboard: true})
			}
			gate, err := b.gate.Check(ctx, user.ID)
			if err != nil {
				return err
			}
			if !gate.Allowed {
				return c.Send(fmt.Sprintf(msgSpamBlocked, gate.RemainingMinutes))
			}
			s.Channel = ch.Name
			s.State = session.StateAwaitingContent
			return c.Send(fmt.Sprintf(msgDeepLinkSet, ch.Name), tele.ModeHTML, &tele.ReplyMarkup{RemoveKeyboard: true})
		}

		channels, err := b.registry.Channels(ctx)
		if err != nil {
			return err
		}
		s.State = session.StateAwaitingChannel
		return c.Send(msgGreetingChannels, channelsKeyboard(channels))
	})
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(msgHelp, tele.ModeHTML)
}

// handleText dispatches a plain text message on the session state.
func (b *Bot) handleText(c tele.Context) error {
	return b.withSession(c, func(ctx context.Context, s *session.Session) error {
		switch s.State {
		case session.StateAwaitingChannel:
			return b.channelChosen(ctx, c, s)
		case session.StateAwaitingContent:
			return b.contentReceived(ctx, c, s)
		case session.StateConfirming:
			return b.confirmChoice(ctx, c, s)
		case session.StateAdminPanel:
			return b.adminPanelText(ctx, c, s)
		case session.StateQueueChannel:
			return b.queueChannelChosen(ctx, c, s)
		case session.StateChannelsMenu:
			return b.channelsMenuText(ctx, c, s)
		case session.StateChannelsSelect:
			return b.channelSelected(ctx, c, s)
		case session.StateChannelsConfirmDelete:
			return b.channelDeleteDecision(ctx, c, s)
		case session.StateChannelsAddName:
			return b.channelAddName(ctx, c, s)
		case session.StateChannelsAddID:
			return b.channelAddID(ctx, c, s)
		case session.StateChannelsEditName:
			return b.channelEditName(ctx, c, s)
		case session.StateChannelsEditID:
			return b.channelEditID(ctx, c, s)
		case session.StateSpamMenu:
			return b.spamMenuText(ctx, c, s)
		case session.StateSpamDelay:
			return b.spamDelayEntered(ctx, c, s)
		}
		// Idle: only commands matter.
		return nil
	})
}

func (b *Bot) channelChosen(ctx context.Context, c tele.Context, s *session.Session) error {
	name := c.Text()
	if _, err := b.registry.Get(ctx, name); err != nil {
		channels, lerr := b.registry.Channels(ctx)
		if lerr != nil {
			return lerr
		}
		return c.Send(msgPickChannelFromList, channelsKeyboard(channels))
	}

	// Tell a throttled user up front instead of after they composed a post.
	gate, err := b.gate.Check(ctx, c.Sender().ID)
	if err != nil {
		return err
	}
	if !gate.Allowed {
		return c.Send(fmt.Sprintf(msgSpamBlocked, gate.RemainingMinutes))
	}

	s.Channel = name
	s.State = session.StateAwaitingContent
	return c.Send(fmt.Sprintf(msgSendPost, name), tele.ModeHTML, &tele.ReplyMarkup{RemoveKeyboard: true})
}

func (b *Bot) contentReceived(_ context.Context, c tele.Context, s *session.Session) error {
	s.Draft = model.Content{Text: c.Text()}
	s.State = session.StateConfirming
	return c.Send(msgTextReceived, confirmPostKeyboard())
}

// handleMedia accepts single photos/videos and album fragments while the
// user is composing a post.
func (b *Bot) handleMedia(c tele.Context) error {
	return b.withSession(c, func(ctx context.Context, s *session.Session) error {
		if s.State != session.StateAwaitingContent && s.State != session.StateConfirming {
			return nil
		}
		msg := c.Message()

		if msg.AlbumID != "" {
			item, ok := albumItemOf(msg)
			if !ok {
				return nil
			}
			b.albums.Add(c.Sender().ID, msg.AlbumID, item, msg.Caption)
			return nil
		}

		switch {
		case msg.Photo != nil:
			s.Draft = model.Content{Photo: msg.Photo.FileID, Caption: msg.Caption}
			s.State = session.StateConfirming
			return c.Send(msgPhotoReceived, confirmPostKeyboard())
		case msg.Video != nil:
			s.Draft = model.Content{Video: msg.Video.FileID, Caption: msg.Caption}
			s.State = session.StateConfirming
			return c.Send(msgVideoReceived, confirmPostKeyboard())
		}
		return nil
	})
}

func albumItemOf(msg *tele.Message) (model.AlbumItem, bool) {
	switch {
	case msg.Photo != nil:
		return model.AlbumItem{Kind: model.MediaPhoto, FileID: msg.Photo.FileID}, true
	case msg.Video != nil:
		return model.AlbumItem{Kind: model.MediaVideo, FileID: msg.Video.FileID}, true
	}
	return model.AlbumItem{}, false
}

// albumReady fires on the aggregator goroutine once a media group goes
// quiet. The draft lands only if the user is still composing.
func (b *Bot) albumReady(userID int64, content model.Content) {
	ctx := context.Background()
	b.sessions.Do(userID, func(s *session.Session) {
		if s.State != session.StateAwaitingContent && s.State != session.StateConfirming {
			return
		}
		s.Draft = content
		s.State = session.StateConfirming

		bot := b.tb.Load()
		if bot == nil {
			return
		}
		text := fmt.Sprintf(msgAlbumReceived, albumSummary(content.Album))
		if _, err := bot.Send(tele.ChatID(userID), text, confirmPostKeyboard()); err != nil {
			logger.Warn(ctx, "bot", "album.prompt_failed",
				slog.Int64("user_id", userID), slog.String("err", err.Error()))
		}
	})
}

func albumSummary(items []model.AlbumItem) string {
	photos, videos := 0, 0
	for _, item := range items {
		if item.Kind == model.MediaVideo {
			videos++
		} else {
			photos++
		}
	}
	var parts []string
	if photos > 0 {
		parts = append(parts, fmt.Sprintf("%d фото", photos))
	}
	if videos > 0 {
		parts = append(parts, fmt.Sprintf("%d відео", videos))
	}
	return strings.Join(parts, " та ")
}

func (b *Bot) confirmChoice(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnSubmit:
		return b.submitDraft(ctx, c, s)
	case btnStartOver:
		s.Reset()
		b.albums.DiscardUser(c.Sender().ID)
		channels, err := b.registry.Channels(ctx)
		if err != nil {
			return err
		}
		s.State = session.StateAwaitingChannel
		return c.Send(msgStartOver, channelsKeyboard(channels))
	default:
		// A fresh text replaces the draft.
		return b.contentReceived(ctx, c, s)
	}
}

func (b *Bot) submitDraft(ctx context.Context, c tele.Context, s *session.Session) error {
	user := c.Sender()

	gate, err := b.gate.Check(ctx, user.ID)
	if err != nil {
		return err
	}
	if !gate.Allowed {
		return c.Send(fmt.Sprintf(msgSpamBlocked, gate.RemainingMinutes))
	}

	id, err := b.queue.Submit(ctx, user.ID, usernameOf(user), s.Channel, s.Draft)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The channel vanished while the user was composing.
			s.Reset()
			return c.Send(msgDeepLinkNotFound, &tele.ReplyMarkup{RemoveKeyboard: true})
		}
		return err
	}

	s.Reset()
	return c.Send(fmt.Sprintf(msgSubmitted, id), tele.ModeHTML, &tele.ReplyMarkup{RemoveKeyboard: true})
}
