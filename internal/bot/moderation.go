package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
	coretg "github.com/ds0903/post-bot/core/telegram"
	"github.com/ds0903/post-bot/internal/model"
	"github.com/ds0903/post-bot/internal/service"
	"github.com/ds0903/post-bot/internal/storage"
)

// sendModerationCard renders one pending post for a reviewer: the content
// itself, a header identifying the submitter, and the decision buttons.
// Albums are re-sent as a media group with a separate action message since
// inline keyboards cannot attach to groups.
func (b *Bot) sendModerationCard(_ context.Context, c tele.Context, post model.Post) error {
	header := fmt.Sprintf(msgModerationCard,
		post.ID, post.Username, post.Channel, post.CreatedAt.Format("2006-01-02 15:04"))

	switch post.Content.Kind() {
	case model.ContentAlbum:
		caption := header
		if post.Content.Caption != "" {
			caption += "\n\n" + post.Content.Caption
		}
		if err := c.SendAlbum(buildAlbum(post.Content.Album, caption)); err != nil {
			return err
		}
		return c.Send(msgCardActions, moderationKeyboard(post.ID))
	case model.ContentPhoto:
		caption := header
		if post.Content.Caption != "" {
			caption += "\n\n" + post.Content.Caption
		}
		photo := &tele.Photo{File: tele.File{FileID: post.Content.Photo}, Caption: caption}
		return c.Send(photo, moderationKeyboard(post.ID))
	case model.ContentVideo:
		caption := header
		if post.Content.Caption != "" {
			caption += "\n\n" + post.Content.Caption
		}
		video := &tele.Video{File: tele.File{FileID: post.Content.Video}, Caption: caption}
		return c.Send(video, moderationKeyboard(post.ID))
	default:
		return c.Send(header+"\n\n"+post.Content.Text, moderationKeyboard(post.ID))
	}
}

func (b *Bot) handleApprove(c tele.Context) error {
	return b.handleDecision(c, true)
}

func (b *Bot) handleReject(c tele.Context) error {
	return b.handleDecision(c, false)
}

func (b *Bot) handleDecision(c tele.Context, approve bool) error {
	ctx := coretg.BuildContext(c)
	user := c.Sender()
	if user == nil || !b.isAdmin(ctx, user.ID) {
		return c.Respond(&tele.CallbackResponse{Text: msgNoAccess})
	}

	_, payload := coretg.ParseCallbackData(c.Callback())
	postID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgAlreadyDecided})
	}

	var post model.Post
	if approve {
		post, err = b.queue.Approve(ctx, postID)
	} else {
		post, err = b.queue.Reject(ctx, postID)
	}

	switch {
	case err == nil:
		b.clearDecisionButtons(ctx, c)
		b.notifySubmitter(ctx, post, approve)
		if approve {
			return c.Respond(&tele.CallbackResponse{Text: msgPublished})
		}
		return c.Respond(&tele.CallbackResponse{Text: msgRejected})

	case errors.Is(err, storage.ErrAlreadyDecided):
		b.clearDecisionButtons(ctx, c)
		return c.Respond(&tele.CallbackResponse{Text: msgAlreadyDecided})

	case errors.Is(err, storage.ErrNotFound):
		b.clearDecisionButtons(ctx, c)
		return c.Respond(&tele.CallbackResponse{Text: msgAlreadyDecided})

	case errors.Is(err, service.ErrChannelGone):
		return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf(msgChannelLost, post.Channel)})

	default:
		// Publish failure: keep the buttons so the reviewer can retry.
		logger.Error(ctx, "bot", "decision.failed",
			slog.Int64("post_id", postID), slog.Bool("approve", approve), slog.String("err", err.Error()))
		return c.Respond(&tele.CallbackResponse{Text: msgPublishFailed})
	}
}

func (b *Bot) clearDecisionButtons(ctx context.Context, c tele.Context) {
	cb := c.Callback()
	if cb == nil || cb.Message == nil {
		return
	}
	bot := b.tb.Load()
	if bot == nil {
		return
	}
	if _, err := bot.EditReplyMarkup(cb.Message, nil); err != nil {
		logger.Debug(ctx, "bot", "decision.clear_markup_failed", slog.String("err", err.Error()))
	}
}

// notifySubmitter tells the author about the decision through the async
// dispatcher; delivery failures are logged, never surfaced to the reviewer.
func (b *Bot) notifySubmitter(ctx context.Context, post model.Post, approved bool) {
	bot := b.tb.Load()
	if bot == nil {
		return
	}
	text := msgUserRejected
	if approved {
		text = fmt.Sprintf(msgUserApproved, post.Channel)
	}
	userID := post.UserID
	err := b.notify.Enqueue(ctx, "notify.decision", func() error {
		_, serr := bot.Send(tele.ChatID(userID), text)
		return serr
	})
	if err != nil {
		logger.Warn(ctx, "bot", "notify.enqueue_failed",
			slog.Int64("user_id", userID), slog.String("err", err.Error()))
	}
}
