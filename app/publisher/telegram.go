package publisher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender implements Sender on top of the Bot API. Destinations are
// either @channel handles or numeric chat ids.
type TelegramSender struct {
	bot *tgbotapi.BotAPI
}

var _ Sender = (*TelegramSender)(nil)

func NewTelegramSender(token string) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	return &TelegramSender{bot: bot}, nil
}

// Username returns the authenticated bot's username
func (s *TelegramSender) Username() string {
	return s.bot.Self.UserName
}

func (s *TelegramSender) SendPhoto(ctx context.Context, destination string, image []byte, caption string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	file := tgbotapi.FileBytes{Name: "illustration.png", Bytes: image}

	var msg tgbotapi.PhotoConfig
	if chatID, ok := numericChatID(destination); ok {
		msg = tgbotapi.NewPhoto(chatID, file)
	} else {
		msg = tgbotapi.NewPhotoToChannel(destination, file)
	}
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeMarkdown

	sent, err := s.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send photo: %w", err)
	}

	return sent.MessageID, nil
}

func (s *TelegramSender) SendMessage(ctx context.Context, destination string, text string, disablePreview bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	if chatID, ok := numericChatID(destination); ok {
		msg = tgbotapi.NewMessage(chatID, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(destination, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = disablePreview

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func numericChatID(destination string) (int64, bool) {
	if strings.HasPrefix(destination, "@") {
		return 0, false
	}
	id, err := strconv.ParseInt(destination, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
