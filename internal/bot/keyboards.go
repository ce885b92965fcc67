package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/ds0903/post-bot/core/telegram/keyboard"
	"github.com/ds0903/post-bot/internal/model"
)

// Callback uniques for moderation decisions; the payload is the post id.
const (
	cbApprove = "approve"
	cbReject  = "reject"
)

func channelsKeyboard(channels []model.Channel) *tele.ReplyMarkup {
	labels := make([]string, 0, len(channels))
	for _, ch := range channels {
		labels = append(labels, ch.Name)
	}
	return keyboard.ReplyColumn(labels...)
}

func channelsKeyboardWithBack(names []string) *tele.ReplyMarkup {
	return keyboard.ReplyColumn(append(append([]string{}, names...), btnBack)...)
}

func confirmPostKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyColumn(btnSubmit, btnStartOver)
}

func adminMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyColumn(btnQueue, btnHistory, btnChannels, btnSpam, btnLogout)
}

func channelManageKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyColumn(btnAddChannel, btnEditChannel, btnDeleteChannel, btnListChannels, btnCleanup, btnBack)
}

func channelEditKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyColumn(btnRename, btnChangeID, btnBack)
}

func confirmCancelKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyColumn(btnConfirm, btnCancel)
}

func spamMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyColumn(btnSpamDelay, btnSpamToggle, btnSpamStatus, btnBack)
}

func moderationKeyboard(postID int64) *tele.ReplyMarkup {
	payload := strconv.FormatInt(postID, 10)
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnApprove, Unique: cbApprove, Data: payload},
		{Text: btnReject, Unique: cbReject, Data: payload},
	})
}
