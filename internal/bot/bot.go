// Package bot wires the Telegram conversation flows: submitter intake with
// album coalescing, the reviewer panel, and the moderation callbacks.
package bot

import (
	"context"
	"log/slog"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/config"
	"github.com/ds0903/post-bot/core/logger"
	coretg "github.com/ds0903/post-bot/core/telegram"
	"github.com/ds0903/post-bot/core/telegram/sender"
	"github.com/ds0903/post-bot/internal/album"
	"github.com/ds0903/post-bot/internal/service"
	"github.com/ds0903/post-bot/internal/session"
	"github.com/ds0903/post-bot/internal/storage"
)

// Bot owns the conversation layer. Handlers dispatch on the per-user session
// state; the session manager serializes updates per user.
type Bot struct {
	cfg      *config.Config
	store    *storage.Store
	registry *service.Registry
	gate     *service.SpamGate
	queue    *service.Queue
	pub      *Publisher
	notify   *sender.Dispatcher

	sessions *session.Manager
	albums   *album.Aggregator
	commands *coretg.Registry

	tb atomic.Pointer[tele.Bot]
}

// New assembles the bot layer over the already-constructed services.
func New(cfg *config.Config, store *storage.Store, registry *service.Registry,
	gate *service.SpamGate, queue *service.Queue, pub *Publisher, notify *sender.Dispatcher) *Bot {

	b := &Bot{
		cfg:      cfg,
		store:    store,
		registry: registry,
		gate:     gate,
		queue:    queue,
		pub:      pub,
		notify:   notify,
		sessions: session.NewManager(),
		commands: coretg.NewRegistry(),
	}
	b.albums = album.New(cfg.Moderation.AlbumDebounce, b.albumReady)

	b.commands.RegisterCommand("/start", coretg.Command{Handler: b.handleStart, Description: "Почати"})
	b.commands.RegisterCommand("/help", coretg.Command{Handler: b.handleHelp, Description: "Довідка"})
	b.commands.RegisterCommand("/admin", coretg.Command{Handler: b.handleAdmin, Description: "Адмінка", Hidden: true})

	if err := b.commands.RegisterCallback(cbApprove, b.handleApprove); err != nil {
		logger.TG.Warn("callback registration failed", slog.String("key", cbApprove), slog.String("err", err.Error()))
	}
	if err := b.commands.RegisterCallback(cbReject, b.handleReject); err != nil {
		logger.TG.Warn("callback registration failed", slog.String("key", cbReject), slog.String("err", err.Error()))
	}
	return b
}

// Commands exposes the command registry for menu setup.
func (b *Bot) Commands() *coretg.Registry { return b.commands }

// Routes binds every endpoint the bot answers to.
func (b *Bot) Routes() []coretg.Route {
	routes := []coretg.Route{
		{Endpoint: tele.OnText, Handler: b.handleText},
		{Endpoint: tele.OnPhoto, Handler: b.handleMedia},
		{Endpoint: tele.OnVideo, Handler: b.handleMedia},
		{Endpoint: tele.OnCallback, Handler: b.handleCallback},
	}
	for name, cmd := range b.commands.Commands() {
		routes = append(routes, coretg.Route{Endpoint: name, Handler: cmd.Handler})
	}
	return routes
}

// OnStart binds the transport and warms the channel snapshot.
func (b *Bot) OnStart(ctx context.Context, bot *tele.Bot) error {
	b.tb.Store(bot)
	b.pub.Bind(bot)
	if err := b.registry.Refresh(ctx); err != nil {
		return err
	}
	logger.Info(ctx, "bot", "bot.ready", slog.String("username", bot.Me.Username))
	return nil
}

// OnStop drops pending album buffers; nothing is materialized mid-shutdown.
func (b *Bot) OnStop(ctx context.Context, _ *tele.Bot) error {
	logger.Info(ctx, "bot", "bot.stopping")
	return nil
}

func (b *Bot) handleCallback(c tele.Context) error {
	key, _ := coretg.ParseCallbackData(c.Callback())
	if handler, ok := b.commands.GetCallback(key); ok {
		return handler(c)
	}
	return b.commands.CallbackNotFound()(c)
}

// withSession runs a handler body under the user's session lock. The error
// of the body propagates to telebot.
func (b *Bot) withSession(c tele.Context, fn func(ctx context.Context, s *session.Session) error) error {
	from := c.Sender()
	if from == nil {
		return nil
	}
	ctx := coretg.BuildContext(c)
	var err error
	b.sessions.Do(from.ID, func(s *session.Session) {
		err = fn(ctx, s)
	})
	return err
}

// isAdmin reports whether the update comes from a logged-in reviewer. The
// in-memory flag survives within a run; after a restart the allow-list
// lookup restores access for known reviewers.
func (b *Bot) isAdmin(ctx context.Context, userID int64) bool {
	if b.sessions.Peek(userID).Admin {
		return true
	}
	ok, err := b.store.Admins.Exists(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "bot", "admin.lookup_failed", slog.Int64("user_id", userID), slog.String("err", err.Error()))
		return false
	}
	return ok
}

func usernameOf(u *tele.User) string {
	if u == nil || u.Username == "" {
		return "без_ніка"
	}
	return u.Username
}
