package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if b.err != nil {
		return tgbotapi.Message{}, b.err
	}
	b.sent = append(b.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func TestSendText(t *testing.T) {
	bot := &fakeBot{}
	n := &TelegramNotifier{bot: bot, chatID: 42}

	require.NoError(t, n.SendText(context.Background(), "*hello*"))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, "*hello*", bot.sent[0].Text)
	assert.Equal(t, tgbotapi.ModeMarkdown, bot.sent[0].ParseMode)
}

func TestSendText_Errors(t *testing.T) {
	n := &TelegramNotifier{bot: &fakeBot{err: errors.New("boom")}, chatID: 42}
	assert.ErrorContains(t, n.SendText(context.Background(), "x"), "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.SendText(ctx, "x"), context.Canceled)
}

func TestNewTelegramNotifier_RequiresChat(t *testing.T) {
	_, err := NewTelegramNotifier(context.Background(), "token", 0)
	assert.Error(t, err)
}
