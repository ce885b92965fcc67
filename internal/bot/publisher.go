package bot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/internal/model"
)

// channelRecipient adapts a canonical channel identifier (@handle or numeric
// chat id) to telebot's Recipient.
type channelRecipient string

func (r channelRecipient) Recipient() string { return string(r) }

// ErrPublisherNotReady reports a publish attempt before the bot transport
// is up.
var ErrPublisherNotReady = errors.New("bot: publisher not bound to a transport")

// Publisher delivers approved content through the Bot API. The transport is
// bound after the bot is built, so the publisher can be handed to services
// during wiring.
type Publisher struct {
	bot atomic.Pointer[tele.Bot]
}

func NewPublisher() *Publisher { return &Publisher{} }

// Bind attaches the running bot.
func (p *Publisher) Bind(bot *tele.Bot) { p.bot.Store(bot) }

// Publish sends the content to the destination as the matching Bot API
// call: sendMessage, sendPhoto, sendVideo, or sendMediaGroup for albums
// with the caption on the first item.
func (p *Publisher) Publish(_ context.Context, destination string, content model.Content) error {
	bot := p.bot.Load()
	if bot == nil {
		return ErrPublisherNotReady
	}
	to := channelRecipient(destination)

	switch content.Kind() {
	case model.ContentText:
		_, err := bot.Send(to, content.Text)
		return err
	case model.ContentPhoto:
		_, err := bot.Send(to, &tele.Photo{File: tele.File{FileID: content.Photo}, Caption: content.Caption})
		return err
	case model.ContentVideo:
		_, err := bot.Send(to, &tele.Video{File: tele.File{FileID: content.Video}, Caption: content.Caption})
		return err
	case model.ContentAlbum:
		_, err := bot.SendAlbum(to, buildAlbum(content.Album, content.Caption))
		return err
	}
	return fmt.Errorf("bot: unsupported content kind %q", content.Kind())
}

func buildAlbum(items []model.AlbumItem, caption string) tele.Album {
	album := make(tele.Album, 0, len(items))
	for i, item := range items {
		itemCaption := ""
		if i == 0 {
			itemCaption = caption
		}
		switch item.Kind {
		case model.MediaVideo:
			album = append(album, &tele.Video{File: tele.File{FileID: item.FileID}, Caption: itemCaption})
		default:
			album = append(album, &tele.Photo{File: tele.File{FileID: item.FileID}, Caption: itemCaption})
		}
	}
	return album
}
