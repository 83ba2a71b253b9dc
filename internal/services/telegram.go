package services

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bulkpickup_app/internal/config"
)

// chatSender is the part of *tgbotapi.BotAPI used for reminders
type chatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramService delivers "push" reminders through a Telegram bot. The bot
// is created on first use since NewBotAPI calls getMe.
type TelegramService struct {
	token string

	mu  sync.Mutex
	bot chatSender
}

func NewTelegramService(cfg config.Config) *TelegramService {
	return &TelegramService{token: cfg.TelegramToken}
}

// Configured reports whether a bot token is set
func (s *TelegramService) Configured() bool {
	return s.token != "" || s.bot != nil
}

func (s *TelegramService) client() (chatSender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bot != nil {
		return s.bot, nil
	}
	if s.token == "" {
		return nil, fmt.Errorf("telegram: %w", ErrChannelNotConfigured)
	}
	bot, err := tgbotapi.NewBotAPI(s.token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	s.bot = bot
	return bot, nil
}

// SendMessage posts text to chatID
func (s *TelegramService) SendMessage(ctx context.Context, chatID int64, text string) error {
	if chatID == 0 {
		return fmt.Errorf("telegram: missing chat id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bot, err := s.client()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send to %d: %w", chatID, err)
	}
	return nil
}
