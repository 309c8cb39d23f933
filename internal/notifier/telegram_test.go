package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
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
	return tgbotapi.Message{}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTelegramSender_Send(t *testing.T) {
	bot := &fakeBot{}
	s := newTelegramSender(bot, rate.NewLimiter(rate.Inf, 1), quietLogger())

	require.NoError(t, s.Send(context.Background(), "42", "Your withdrawal was approved"))

	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(42), bot.sent[0].ChatID)
	assert.Equal(t, "Your withdrawal was approved", bot.sent[0].Text)
}

func TestTelegramSender_Errors(t *testing.T) {
	bot := &fakeBot{}
	s := newTelegramSender(bot, rate.NewLimiter(rate.Inf, 1), quietLogger())
	assert.Error(t, s.Send(context.Background(), "not-a-chat", "x"))
	assert.Empty(t, bot.sent)

	bot.err = errors.New("Forbidden: bot was blocked by the user")
	assert.ErrorContains(t, s.Send(context.Background(), "42", "x"), "blocked")
}

func TestTelegramSender_WaitsForLimiter(t *testing.T) {
	bot := &fakeBot{}
	// one token, refilled once a minute
	s := newTelegramSender(bot, rate.NewLimiter(rate.Every(time.Minute), 1), quietLogger())
	require.NoError(t, s.Send(context.Background(), "42", "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, s.Send(ctx, "42", "second"))
	assert.Len(t, bot.sent, 1)
}

func TestNoopSender(t *testing.T) {
	assert.NoError(t, NoopSender{Logger: quietLogger()}.Send(context.Background(), "42", "x"))
	assert.NoError(t, NoopSender{}.Send(context.Background(), "42", "x"))
}
