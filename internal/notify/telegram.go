package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/JRomainG/TGVMaxBot/internal/logger"
)

// TelegramSink sends messages through the Telegram Bot API.
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	logger logger.Logger
}

// NewTelegramSink authenticates the bot token. endpoint is a format string
// with the token and the method, empty for the public API.
func NewTelegramSink(token, endpoint string, log logger.Logger) (*TelegramSink, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate telegram bot: %w", err)
	}

	log.Info("telegram bot authenticated", logger.String("username", bot.Self.UserName))
	return &TelegramSink{bot: bot, logger: log}, nil
}

// Send posts text to chatID. The Bot API client is not context aware, so
// ctx is only checked before the call.
func (s *TelegramSink) Send(ctx context.Context, chatID int64, text string, opts SendOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableNotification = opts.Silent

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message to chat %d: %w", chatID, err)
	}
	return nil
}
