package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// Bot is the subset of *tgbotapi.BotAPI the handler depends on.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Conversation interface {
	Handle(ctx context.Context, ev entities.Event) ([]entities.Reply, error)
}

// UserService is notified when a user blocks the bot.
type UserService interface {
	Deactivate(ctx context.Context, telegramID int64) error
}

type Metrics interface {
	RecordUpdate(kind string)
	RecordDroppedUpdate(reason string)
}

// Reasons an update is dropped before it reaches a worker.
const (
	dropRateLimited = "rate_limited"
	dropQueueFull   = "queue_full"
)

type nopMetrics struct{}

func (nopMetrics) RecordUpdate(string)        {}
func (nopMetrics) RecordDroppedUpdate(string) {}
