package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
)

// Middleware describes a global bot middleware to be registered via bot.Use.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions controls the behaviour of Run.
type RunOptions struct {
	Token  string
	Poller tele.Poller

	Registry    *Registry
	Middlewares []Middleware
	Routes      []Route

	OnStart func(ctx context.Context, bot *tele.Bot) error
	OnStop  func(ctx context.Context, bot *tele.Bot) error
}

// Run composes and runs a Telegram bot until the provided context is done.
func Run(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	buildStart := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  opts.Token,
		Poller: opts.Poller,
	})
	if err != nil {
		return fmt.Errorf("telegram: bot initialization failed: %w", err)
	}

	logger.TG.Info("bot built",
		slog.String("event", "build"),
		slog.Duration("duration", logger.RoundMS(time.Since(buildStart))),
	)

	for _, mw := range opts.Middlewares {
		if mw.Use == nil {
			continue
		}
		bot.Use(mw.Use)
	}

	for _, route := range opts.Routes {
		if route.Endpoint == nil || route.Handler == nil {
			continue
		}
		bot.Handle(route.Endpoint, route.Handler)
	}

	if opts.Registry != nil {
		InitBotCommands(bot, opts.Registry)
	}

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, bot); err != nil {
			return err
		}
	}

	runDone := make(chan struct{})
	go func() {
		bot.Start()
		close(runDone)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		bot.Stop()
		<-runDone
		runErr = ctx.Err()
	case <-runDone:
	}

	if opts.OnStop != nil {
		if err := opts.OnStop(ctx, bot); err != nil {
			return err
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
