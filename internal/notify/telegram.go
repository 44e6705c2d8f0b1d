// Package notify delivers the daily attendance summary to a Telegram chat.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/locvowork/timekeeper/internal/logger"
)

// botSender is the slice of *tgbotapi.BotAPI the notifier needs.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts summary text to one chat.
type TelegramNotifier struct {
	bot    botSender
	chatID int64
}

// NewTelegramNotifier authorizes the bot token against the Telegram API.
func NewTelegramNotifier(ctx context.Context, token string, chatID int64) (*TelegramNotifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.InfoLog(ctx, "Telegram notifier authorized as %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// SendText sends text with Markdown formatting.
func (n *TelegramNotifier) SendText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
