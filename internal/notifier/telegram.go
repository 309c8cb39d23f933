// Package notifier delivers messages to account holders through the Telegram bot.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram allows about 30 messages per second per bot.
const (
	defaultRate  = 25
	defaultBurst = 5
)

// botAPI is the part of tgbotapi.BotAPI the sender uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender sends plain-text messages to a Telegram chat, throttled to stay below the
// bot API limits.
type TelegramSender struct {
	bot     botAPI
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTelegramSender connects to the bot API with token.
func NewTelegramSender(token string, logger *slog.Logger) (*TelegramSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	logger.Info("Telegram bot connected", slog.String("username", bot.Self.UserName))
	return newTelegramSender(bot, rate.NewLimiter(defaultRate, defaultBurst), logger), nil
}

func newTelegramSender(bot botAPI, limiter *rate.Limiter, logger *slog.Logger) *TelegramSender {
	return &TelegramSender{bot: bot, limiter: limiter, logger: logger}
}

// Send delivers text to the private chat of the Telegram user accountID.
// It blocks until the limiter admits the message or ctx is done.
func (s *TelegramSender) Send(ctx context.Context, accountID string, text string) error {
	chatID, err := strconv.ParseInt(accountID, 10, 64)
	if err != nil {
		return fmt.Errorf("account %q is not a telegram chat id: %w", accountID, err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	s.logger.Debug("Telegram message sent", slog.Int64("chat_id", chatID))
	return nil
}

// NoopSender drops every message. It is used when no bot token is configured.
type NoopSender struct {
	Logger *slog.Logger
}

func (s NoopSender) Send(_ context.Context, accountID string, _ string) error {
	if s.Logger != nil {
		s.Logger.Debug("Telegram disabled, message dropped", slog.String("account_id", accountID))
	}
	return nil
}
