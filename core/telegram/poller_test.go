package telegram

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerWebhook(t *testing.T) {
	p := BuildPoller(PollerOptions{
		RunMode: " Webhook ",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://bot.example.com/hook"},
	})
	wh, ok := p.(*tele.Webhook)
	if !ok {
		t.Fatalf("poller = %T, want *tele.Webhook", p)
	}
	if wh.Listen != "0.0.0.0:8443" {
		t.Errorf("listen = %q, want %q", wh.Listen, "0.0.0.0:8443")
	}
	if wh.Endpoint == nil || wh.Endpoint.PublicURL != "https://bot.example.com/hook" {
		t.Errorf("endpoint = %+v, want public url set", wh.Endpoint)
	}
	if len(wh.AllowedUpdates) != 2 {
		t.Errorf("allowed updates = %v, want message and callback_query", wh.AllowedUpdates)
	}
}

func TestBuildPollerLongPollDefaults(t *testing.T) {
	p := BuildPoller(PollerOptions{RunMode: RunModeLongpoll})
	lp, ok := p.(*tele.LongPoller)
	if !ok {
		t.Fatalf("poller = %T, want *tele.LongPoller", p)
	}
	if lp.Timeout != defaultLongPollTimeout {
		t.Errorf("timeout = %v, want %v", lp.Timeout, defaultLongPollTimeout)
	}
	if len(lp.AllowedUpdates) != 2 {
		t.Errorf("allowed updates = %v, want message and callback_query", lp.AllowedUpdates)
	}
}

func TestBuildPollerLongPollTimeout(t *testing.T) {
	p := BuildPoller(PollerOptions{RunMode: RunModeLongpoll, LongPollTimeoutSeconds: 25})
	lp := p.(*tele.LongPoller)
	if lp.Timeout != 25*time.Second {
		t.Errorf("timeout = %v, want 25s", lp.Timeout)
	}
}
