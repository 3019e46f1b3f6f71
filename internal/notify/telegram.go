package notify

import (
	"context"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/rotisserie/eris"
)

// telegramAPI is the slice of tgbotapi.BotAPI the messenger uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramMessenger delivers messages to a fixed company chat. Telegram
// cannot address arbitrary phone numbers, so the recipient argument is
// prepended to the text instead of selecting a destination.
type TelegramMessenger struct {
	api    telegramAPI
	chatID int64
}

// NewTelegramMessenger creates a messenger backed by a Telegram bot.
func NewTelegramMessenger(token string, chatID int64) (*TelegramMessenger, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, eris.Wrap(err, "telegram: init bot")
	}
	return &TelegramMessenger{api: api, chatID: chatID}, nil
}

func (t *TelegramMessenger) Send(ctx context.Context, to, text string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "telegram: context done")
	}

	if to != "" {
		text = "[" + to + "] " + text
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return eris.Wrap(err, "telegram: send message")
	}
	return nil
}
