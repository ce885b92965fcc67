package middleware

import (
	"context"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
	coretg "github.com/ds0903/post-bot/core/telegram"
)

// Logging logs a single receipt line per update and seeds rid for downstream handlers.
func Logging(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		coretg.StoreContext(c, ctx)

		attrs := []slog.Attr{
			slog.Int("update_id", upd.ID),
			slog.Int64("user_id", userID),
		}
		switch {
		case upd.Callback != nil:
			key, payload := coretg.ParseCallbackData(upd.Callback)
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
			if payload != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
			}
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}
