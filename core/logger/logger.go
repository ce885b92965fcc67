package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/ds0903/post-bot/core/buildinfo"
)

// Options select output level and format for the global logger.
type Options struct {
	Level  string
	Format string
	// Profile indicates environment profile such as "debug" or "prod".
	// It picks the output format when Format is empty.
	Profile string
}

var (
	initOnce sync.Once

	// L is the base logger; component loggers derive from it.
	L *slog.Logger

	// APP logs application lifecycle events.
	APP *slog.Logger
	// DB logs database events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
)

// Init configures the global structured logger. It may be called only once;
// repeated calls are no-ops.
func Init(opts Options) {
	initOnce.Do(func() {
		handler := buildHandler(opts)
		L = slog.New(handler)
		slog.SetDefault(L)

		APP = L.With("component", "app")
		DB = L.With("component", "db")
		MIG = L.With("component", "db.migrate")
		TG = L.With("component", "tg")

		APP.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_version", buildinfo.Version),
			slog.String("build_commit", buildinfo.Commit),
		)
	})
}

func buildHandler(opts Options) slog.Handler {
	level := selectLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: level}
	if selectFormat(opts) == "json" {
		return slog.NewJSONHandler(os.Stdout, hopts)
	}
	return slog.NewTextHandler(os.Stdout, hopts)
}

func selectLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func selectFormat(opts Options) string {
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "kv", "text", "pretty":
		return "text"
	case "json":
		return "json"
	}
	// Prefer human-friendly output when profile indicates dev mode.
	if strings.EqualFold(opts.Profile, "debug") || strings.EqualFold(opts.Profile, "dev") {
		return "text"
	}
	return "json"
}

// Component constructs a logger scoped to the provided component attribute.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return L
	}
	return L.With("component", trimmed)
}

// LogEvent emits a record with a leading event attribute and context metadata.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	if rid := RIDFrom(ctx); rid != "" {
		attrs = append(attrs, slog.String("rid", rid))
	}
	logg.LogAttrs(ctx, level, event, attrs...)
}

// Event logs with component scope resolved automatically.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := Component(component)
	if logg == nil {
		logg = FromContext(ctx)
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

// Debug logs a debug-level event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs an info-level event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs a warn-level event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs an error-level event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}
