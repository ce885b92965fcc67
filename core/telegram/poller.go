package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"

	defaultLongPollTimeout = 10 * time.Second
)

// allowedUpdates narrows delivery to what the bot handles: plain messages
// (text, media, album fragments) and inline-keyboard callbacks.
var allowedUpdates = []string{"message", "callback_query"}

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns the update source for the configured run mode. Anything
// that is not webhook falls back to long polling.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), RunModeWebhook) {
		return &tele.Webhook{
			Listen:         fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			AllowedUpdates: allowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}

	timeout := time.Duration(opts.LongPollTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultLongPollTimeout
	}
	return &tele.LongPoller{Timeout: timeout, AllowedUpdates: allowedUpdates}
}
