package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
	"github.com/ds0903/post-bot/internal/session"
)

func (b *Bot) openSpamMenu(ctx context.Context, c tele.Context, s *session.Session) error {
	settings, err := b.store.Settings.Get(ctx)
	if err != nil {
		return err
	}
	status := msgSpamStatusOff
	if settings.Enabled {
		status = msgSpamStatusOn
	}
	s.State = session.StateSpamMenu
	return c.Send(fmt.Sprintf(msgSpamMenu, status, settings.DelayMinutes), tele.ModeHTML, spamMenuKeyboard())
}

func (b *Bot) spamMenuText(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnBack:
		s.State = session.StateAdminPanel
		return c.Send(msgAdminPanel, adminMenuKeyboard())

	case btnSpamStatus:
		settings, err := b.store.Settings.Get(ctx)
		if err != nil {
			return err
		}
		status := msgSpamStatusOff
		detail := "Користувачі можуть надсилати пости без обмежень."
		if settings.Enabled {
			status = msgSpamStatusOn
			detail = fmt.Sprintf("Користувачі можуть надсилати пости не частіше ніж раз на %d хв.", settings.DelayMinutes)
		}
		return c.Send(fmt.Sprintf(
			"📊 <b>Поточний статус</b>\n\nФункція: %s\nЗатримка між постами: %d хв.\n\n%s",
			status, settings.DelayMinutes, detail), tele.ModeHTML)

	case btnSpamToggle:
		settings, err := b.store.Settings.Get(ctx)
		if err != nil {
			return err
		}
		enabled := !settings.Enabled
		if err := b.store.Settings.SetEnabled(ctx, enabled); err != nil {
			return err
		}
		logger.Info(ctx, "bot", "spam.toggled", slog.Bool("enabled", enabled))
		status := msgSpamDisabled
		if enabled {
			status = msgSpamEnabled
		}
		return c.Send(fmt.Sprintf(msgSpamToggled, status), spamMenuKeyboard())

	case btnSpamDelay:
		settings, err := b.store.Settings.Get(ctx)
		if err != nil {
			return err
		}
		s.State = session.StateSpamDelay
		return c.Send(fmt.Sprintf(msgSpamAskDelay, settings.DelayMinutes), tele.ModeHTML, confirmCancelKeyboard())
	}
	return c.Send(msgUnknownAction, spamMenuKeyboard())
}

func (b *Bot) spamDelayEntered(ctx context.Context, c tele.Context, s *session.Session) error {
	if c.Text() == btnCancel {
		s.State = session.StateSpamMenu
		return c.Send(msgCancelled, spamMenuKeyboard())
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(c.Text()))
	if err != nil {
		return c.Send(msgSpamBadNumber)
	}
	if minutes < 1 || minutes > 1440 {
		return c.Send(msgSpamBadDelay)
	}

	if err := b.store.Settings.SetDelayMinutes(ctx, minutes); err != nil {
		return err
	}
	logger.Info(ctx, "bot", "spam.delay_changed", slog.Int("minutes", minutes))
	s.State = session.StateSpamMenu
	return c.Send(fmt.Sprintf(msgSpamDelaySet, minutes), spamMenuKeyboard())
}
