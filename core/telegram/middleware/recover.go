package middleware

import (
	"log/slog"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
)

// Recover catches panics in handlers and prevents the bot from crashing.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}
