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
	"github.com/ds0903/post-bot/internal/service"
	"github.com/ds0903/post-bot/internal/session"
	"github.com/ds0903/post-bot/internal/storage"
)

func (b *Bot) channelsMenuText(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnBack:
		s.State = session.StateAdminPanel
		return c.Send(msgAdminPanel, adminMenuKeyboard())

	case btnAddChannel:
		s.State = session.StateChannelsAddName
		return c.Send(msgAddChannelName, tele.ModeHTML, confirmCancelKeyboard())

	case btnEditChannel:
		channels, err := b.registry.Channels(ctx)
		if err != nil {
			return err
		}
		if len(channels) == 0 {
			return c.Send(msgNoChannelsToEdit)
		}
		s.Action = session.ActionEdit
		s.State = session.StateChannelsSelect
		return c.Send(msgPickChannelEdit, tele.ModeHTML, channelsKeyboardWithBack(channelNames(channels)))

	case btnDeleteChannel:
		channels, err := b.registry.Channels(ctx)
		if err != nil {
			return err
		}
		if len(channels) == 0 {
			return c.Send(msgNoChannelsToDelete)
		}
		s.Action = session.ActionDelete
		s.State = session.StateChannelsSelect
		return c.Send(msgPickChannelDelete, tele.ModeHTML, channelsKeyboardWithBack(channelNames(channels)))

	case btnListChannels:
		return b.listChannels(ctx, c)

	case btnCleanup:
		removed, err := b.registry.CleanupOrphans(ctx)
		if err != nil {
			return err
		}
		logger.Info(ctx, "bot", "channels.cleanup", slog.Int64("removed", removed))
		if removed > 0 {
			return c.Send(fmt.Sprintf(msgCleanupDone, removed), tele.ModeHTML)
		}
		return c.Send(msgCleanupNothing)
	}
	return c.Send(msgUnknownAction, channelManageKeyboard())
}

func (b *Bot) listChannels(ctx context.Context, c tele.Context) error {
	channels, err := b.registry.Channels(ctx)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return c.Send(msgNoChannelsAtAll)
	}
	var sb strings.Builder
	sb.WriteString(msgChannelsHeader)
	for i, ch := range channels {
		fmt.Fprintf(&sb, "%d. <b>%s</b>\n   ID: %s\n\n", i+1, ch.Name, ch.TelegramID)
	}
	return c.Send(sb.String(), tele.ModeHTML)
}

// channelSelected handles the pick inside edit and delete flows, plus the
// edit-action buttons that reuse the same state.
func (b *Bot) channelSelected(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnBack:
		s.Action = session.ActionNone
		s.EditTarget = ""
		s.State = session.StateChannelsMenu
		return c.Send(msgChannelMenuShort, channelManageKeyboard())

	case btnRename:
		if s.EditTarget == "" {
			return nil
		}
		s.State = session.StateChannelsEditName
		return c.Send(fmt.Sprintf(msgEnterNewName, s.EditTarget), tele.ModeHTML, confirmCancelKeyboard())

	case btnChangeID:
		if s.EditTarget == "" {
			return nil
		}
		ch, err := b.registry.Get(ctx, s.EditTarget)
		if err != nil {
			return err
		}
		s.State = session.StateChannelsEditID
		return c.Send(fmt.Sprintf(msgEnterNewID, ch.Name, ch.TelegramID), tele.ModeHTML, confirmCancelKeyboard())
	}

	name := c.Text()
	ch, err := b.registry.Get(ctx, name)
	if err != nil {
		channels, lerr := b.registry.Channels(ctx)
		if lerr != nil {
			return lerr
		}
		return c.Send(msgPickChannelFromList, channelsKeyboardWithBack(channelNames(channels)))
	}

	switch s.Action {
	case session.ActionDelete:
		s.EditTarget = name
		s.State = session.StateChannelsConfirmDelete
		pending, err := b.queue.Pending(ctx, name)
		if err != nil {
			return err
		}
		text := fmt.Sprintf(msgDeleteConfirm, ch.Name, ch.TelegramID)
		if len(pending) > 0 {
			text += fmt.Sprintf(msgDeleteWarnPending, len(pending))
		}
		return c.Send(text, tele.ModeHTML, confirmCancelKeyboard())

	case session.ActionEdit:
		s.EditTarget = name
		return c.Send(fmt.Sprintf(msgEditChannelActions, ch.Name, ch.TelegramID), tele.ModeHTML, channelEditKeyboard())
	}
	return nil
}

func (b *Bot) channelDeleteDecision(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnConfirm:
		name := s.EditTarget
		removed, err := b.registry.Delete(ctx, name)
		if err != nil {
			return err
		}
		logger.Info(ctx, "bot", "channel.deleted",
			slog.String("channel", name), slog.Int64("removed_posts", removed))
		s.Action = session.ActionNone
		s.EditTarget = ""
		s.State = session.StateChannelsMenu
		text := fmt.Sprintf(msgDeleted, name)
		if removed > 0 {
			text += fmt.Sprintf(msgDeletedWithPosts, removed)
		}
		return c.Send(text, tele.ModeHTML, channelManageKeyboard())

	case btnCancel:
		s.Action = session.ActionNone
		s.EditTarget = ""
		s.State = session.StateChannelsMenu
		return c.Send(msgDeleteCancelled, channelManageKeyboard())
	}
	return c.Send(msgConfirmOrCancel, confirmCancelKeyboard())
}

func (b *Bot) channelAddName(ctx context.Context, c tele.Context, s *session.Session) error {
	if c.Text() == btnCancel {
		s.State = session.StateChannelsMenu
		return c.Send(msgChannelMenuShort, channelManageKeyboard())
	}

	name := strings.TrimSpace(c.Text())
	if _, err := b.registry.Get(ctx, name); err == nil {
		return c.Send(msgChannelNameTaken)
	}
	s.DraftName = name
	s.State = session.StateChannelsAddID
	return c.Send(fmt.Sprintf(msgAddChannelID, name), tele.ModeHTML)
}

func (b *Bot) channelAddID(ctx context.Context, c tele.Context, s *session.Session) error {
	if c.Text() == btnCancel {
		s.DraftName = ""
		s.State = session.StateChannelsMenu
		return c.Send(msgChannelMenuShort, channelManageKeyboard())
	}

	id, err := service.NormalizeChannelID(c.Text())
	if err != nil {
		return c.Send(msgBadChannelID)
	}

	name := s.DraftName
	if err := b.registry.Add(ctx, name, id); err != nil {
		if errors.Is(err, storage.ErrDuplicateChannel) {
			s.State = session.StateChannelsAddName
			return c.Send(msgChannelNameTaken)
		}
		return err
	}

	logger.Info(ctx, "bot", "channel.added",
		slog.String("channel", name), slog.String("destination", id))
	s.DraftName = ""
	s.State = session.StateChannelsMenu
	return c.Send(fmt.Sprintf(msgChannelAdded, name, id), tele.ModeHTML, channelManageKeyboard())
}

func (b *Bot) channelEditName(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnCancel, btnBack:
		s.State = session.StateChannelsSelect
		ch, err := b.registry.Get(ctx, s.EditTarget)
		if err != nil {
			return err
		}
		return c.Send(fmt.Sprintf(msgEditChannelActions, ch.Name, ch.TelegramID), tele.ModeHTML, channelEditKeyboard())
	}

	oldName := s.EditTarget
	newName := strings.TrimSpace(c.Text())
	if err := b.registry.Rename(ctx, oldName, newName); err != nil {
		if errors.Is(err, storage.ErrDuplicateChannel) {
			return c.Send(msgChannelNameTaken)
		}
		return err
	}

	logger.Info(ctx, "bot", "channel.renamed",
		slog.String("from", oldName), slog.String("to", newName))
	s.Action = session.ActionNone
	s.EditTarget = ""
	s.State = session.StateChannelsMenu
	return c.Send(fmt.Sprintf(msgRenamed, oldName, newName), tele.ModeHTML, channelManageKeyboard())
}

func (b *Bot) channelEditID(ctx context.Context, c tele.Context, s *session.Session) error {
	switch c.Text() {
	case btnCancel, btnBack:
		s.State = session.StateChannelsSelect
		ch, err := b.registry.Get(ctx, s.EditTarget)
		if err != nil {
			return err
		}
		return c.Send(fmt.Sprintf(msgEditChannelActions, ch.Name, ch.TelegramID), tele.ModeHTML, channelEditKeyboard())
	}

	id, err := service.NormalizeChannelID(c.Text())
	if err != nil {
		return c.Send(msgBadChannelID)
	}

	name := s.EditTarget
	if err := b.registry.UpdateID(ctx, name, id); err != nil {
		return err
	}

	logger.Info(ctx, "bot", "channel.id_changed",
		slog.String("channel", name), slog.String("destination", id))
	s.Action = session.ActionNone
	s.EditTarget = ""
	s.State = session.StateChannelsMenu
	return c.Send(fmt.Sprintf(msgIDChanged, name, id), tele.ModeHTML, channelManageKeyboard())
}

func channelNames(channels []model.Channel) []string {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name)
	}
	return names
}
