package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ds0903/post-bot/core/config"
	"github.com/ds0903/post-bot/core/database"
	"github.com/ds0903/post-bot/core/logger"
	coretg "github.com/ds0903/post-bot/core/telegram"
	"github.com/ds0903/post-bot/core/telegram/middleware"
	"github.com/ds0903/post-bot/core/telegram/sender"
	"github.com/ds0903/post-bot/internal/bot"
	"github.com/ds0903/post-bot/internal/service"
	"github.com/ds0903/post-bot/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Profile: cfg.Logging.Profile,
	})

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.New(db)
	registry := service.NewRegistry(store.Channels)
	gate := service.NewSpamGate(store.Settings, store.Posts)
	pub := bot.NewPublisher()
	queue := service.NewQueue(store.Posts, registry, pub)

	notify := sender.NewDispatcher(sender.Options{MaxRetries: 2})
	defer notify.Close()

	b := bot.New(cfg, store, registry, gate, queue, pub, notify)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := coretg.BuildPoller(coretg.PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: coretg.WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	})

	exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
	for _, kind := range cfg.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}
	middlewares := []coretg.Middleware{
		{Name: "recover", Use: middleware.Recover},
		{Name: "logging", Use: middleware.Logging},
		{Name: "rate_limit", Use: middleware.RateLimit(middleware.RateLimitOptions{
			Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:  exclude,
		})},
	}

	logger.APP.Info("starting",
		slog.String("event", "app.start"),
		slog.String("run_mode", cfg.Telegram.RunMode),
	)

	return coretg.Run(ctx, coretg.RunOptions{
		Token:       cfg.Telegram.Token,
		Poller:      poller,
		Registry:    b.Commands(),
		Middlewares: middlewares,
		Routes:      b.Routes(),
		OnStart:     b.OnStart,
		OnStop:      b.OnStop,
	})
}
