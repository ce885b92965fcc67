package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/logger"
	coretg "github.com/ds0903/post-bot/core/telegram"
)

type recordingContext struct {
	tele.Context
	values map[string]any
}

func (f *recordingContext) Update() tele.Update { return tele.Update{ID: 7} }
func (f *recordingContext) Sender() *tele.User  { return &tele.User{ID: 42} }
func (f *recordingContext) Chat() *tele.Chat    { return &tele.Chat{ID: 99} }
func (f *recordingContext) Text() string        { return "" }
func (f *recordingContext) Set(k string, v any) { f.values[k] = v }
func (f *recordingContext) Get(k string) any    { return f.values[k] }

func TestLoggingSeedsRequestContext(t *testing.T) {
	c := &recordingContext{values: map[string]any{}}

	called := false
	if err := Logging(func(tele.Context) error { called = true; return nil })(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next handler not called")
	}

	ctx, ok := coretg.ContextFrom(c)
	if !ok || ctx == nil {
		t.Fatal("request context not stored")
	}
	if got := logger.RIDFrom(ctx); got != "7:99:42" {
		t.Errorf("rid in context = %q, want %q", got, "7:99:42")
	}
	if got, _ := c.Get("rid").(string); got != "7:99:42" {
		t.Errorf("rid value = %q, want %q", got, "7:99:42")
	}
}
