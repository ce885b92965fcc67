package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
	"github.com/ds0903/post-bot/internal/model"
	"github.com/ds0903/post-bot/internal/session"
)

// handleAdmin logs a reviewer in: the identity must be on the allow-list and
// the inline password must match the shared bcrypt hash. The password
// message is deleted on success so the secret does not linger in the chat.
func (b *Bot) handleAdmin(c tele.Context) error {
	return b.withSession(c, func(ctx context.Context, s *session.Session) error {
		user := c.Sender()

		onList, err := b.store.Admins.Exists(ctx, user.ID)
		if err != nil {
			return err
		}
		if !onList {
			logger.Warn(ctx, "bot", "admin.denied", slog.Int64("user_id", user.ID))
			return c.Send(msgNoAccess)
		}

		password := strings.TrimSpace(c.Message().Payload)
		if password == "" {
			return c.Send(msgAdminUsage)
		}
		if bcrypt.CompareHashAndPassword([]byte(b.cfg.Admin.PasswordHash), []byte(password)) != nil {
			logger.Warn(ctx, "bot", "admin.bad_password", slog.Int64("user_id", user.ID))
			return c.Send(msgWrongPassword)
		}

		if err := c.Delete(); err != nil {
			logger.Debug(ctx, "bot", "admin.delete_password_failed", slog.String("err", err.Error()))
		}
		if err := b.store.Admins.Upsert(ctx, user.ID, usernameOf(user)); err != nil {
			logger.Warn(ctx, "bot", "admin.upsert_failed", slog.String("err", err.Error()))
		}

		s.Admin = true
		s.State = session.StateAdminPanel
		logger.Info(ctx, "bot", "admin.login", slog.Int64("user_id", user.ID))
		return c.Send(msgAdminWelcome, adminMenuKeyboard())
	})
}

func (b *Bot) adminPanelText(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnQueue:
		return b.openQueue(ctx, c, s)
	case btnHistory:
		return b.showHistory(ctx, c)
	case btnChannels:
		s.State = session.StateChannelsMenu
		return c.Send(msgChannelMenu, tele.ModeHTML, channelManageKeyboard())
	case btnSpam:
		return b.openSpamMenu(ctx, c, s)
	case btnLogout:
		b.albums.DiscardUser(c.Sender().ID)
		b.sessions.Drop(c.Sender().ID)
		logger.Info(ctx, "bot", "admin.logout", slog.Int64("user_id", c.Sender().ID))
		return c.Send(msgAdminBye, &tele.ReplyMarkup{RemoveKeyboard: true})
	}
	return c.Send(msgUnknownAction, adminMenuKeyboard())
}

func (b *Bot) openQueue(ctx context.Context, c tele.Context, s *session.Session) error {
	channels, err := b.queue.ChannelsWithPending(ctx)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return c.Send(msgNoPending)
	}
	s.State = session.StateQueueChannel
	return c.Send(msgPickQueueChannel, channelsKeyboardWithBack(channels))
}

func (b *Bot) queueChannelChosen(ctx context.Context, c tele.Context, s *session.Session) error {
	if c.Text() == btnBack {
		s.State = session.StateAdminPanel
		return c.Send(msgAdminPanel, adminMenuKeyboard())
	}

	channel := c.Text()
	if _, err := b.registry.Get(ctx, channel); err != nil {
		channels, lerr := b.queue.ChannelsWithPending(ctx)
		if lerr != nil {
			return lerr
		}
		return c.Send(msgPickChannelFromList, channelsKeyboardWithBack(channels))
	}

	posts, err := b.queue.Pending(ctx, channel)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		channels, lerr := b.queue.ChannelsWithPending(ctx)
		if lerr != nil {
			return lerr
		}
		return c.Send(fmt.Sprintf(msgNoQueueInChannel, channel), channelsKeyboardWithBack(channels))
	}

	if err := c.Send(fmt.Sprintf(msgQueueForChannel, channel), tele.ModeHTML, adminMenuKeyboard()); err != nil {
		return err
	}
	for _, post := range posts {
		if err := b.sendModerationCard(ctx, c, post); err != nil {
			logger.Warn(ctx, "bot", "queue.card_failed",
				slog.Int64("post_id", post.ID), slog.String("err", err.Error()))
		}
	}
	s.State = session.StateAdminPanel
	return nil
}

func (b *Bot) showHistory(ctx context.Context, c tele.Context) error {
	history, err := b.queue.History(ctx, b.cfg.Moderation.HistoryLimit)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return c.Send(msgHistoryEmpty)
	}

	var sb strings.Builder
	sb.WriteString("📊 Історія:\n\n")
	for _, post := range history {
		emoji := "❌"
		if post.Status == model.StatusApproved {
			emoji = "✅"
		}
		fmt.Fprintf(&sb, "%s #%d | @%s → %s\n", emoji, post.ID, post.Username, post.Channel)
	}
	return c.Send(sb.String())
}
