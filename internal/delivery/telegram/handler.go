package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/verben-quiz-bot/internal/logger"
)

const (
	defaultWorkerIdle     = 5 * time.Minute
	defaultQueueSize      = 16
	limiterCleanupPeriod  = 10 * time.Minute
	updatesTimeoutSeconds = 60
)

// Options tune pacing and flood control of the handler.
type Options struct {
	AnswerDelay   time.Duration // pause after an answer result before the next question
	RatePerSecond float64
	RateBurst     int
	WorkerIdle    time.Duration
	QueueSize     int
}

type Handler struct {
	bot          Bot
	logger       *zap.Logger
	conversation Conversation
	users        UserService
	metrics      Metrics

	answerDelay time.Duration
	limiter     *rateLimiter
	dispatcher  *dispatcher
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	conversation Conversation,
	users UserService,
	metrics Metrics,
	opts Options,
) *Handler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if opts.WorkerIdle <= 0 {
		opts.WorkerIdle = defaultWorkerIdle
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}

	h := &Handler{
		bot:          bot,
		logger:       logger,
		conversation: conversation,
		users:        users,
		metrics:      metrics,
		answerDelay:  opts.AnswerDelay,
		limiter:      newRateLimiter(opts.RatePerSecond, opts.RateBurst, limiterCleanupPeriod),
	}
	h.dispatcher = newDispatcher(h.handleUpdate, opts.WorkerIdle, opts.QueueSize)

	return h
}

// Run polls Telegram for updates until ctx is cancelled.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesTimeoutSeconds

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	go h.limiter.runCleanup(ctx, limiterCleanupPeriod)

	for {
		select {
		case <-ctx.Done():
			h.dispatcher.wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				h.dispatcher.wait()
				return nil
			}
			h.route(ctx, update)
		}
	}
}

// route hands an update to the worker of its sender.
func (h *Handler) route(ctx context.Context, update tgbotapi.Update) {
	h.metrics.RecordUpdate(updateKind(update))

	userID := updateUserID(update)
	if userID == 0 {
		h.logger.Debug("update without sender", zap.Int("update_id", update.UpdateID))
		return
	}

	if !h.limiter.allow(userID) {
		h.metrics.RecordDroppedUpdate(dropRateLimited)
		h.logger.Warn("rate limit exceeded", logger.UserID(userID))
		return
	}

	if !h.dispatcher.dispatch(ctx, userID, update) {
		h.metrics.RecordDroppedUpdate(dropQueueFull)
		h.logger.Warn("user queue is full", logger.UserID(userID))
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		h.logger.Debug("callback received",
			logger.UserID(cb.From.ID),
			zap.String("data", cb.Data),
		)
		h.answerCallback(cb.ID)

		ev, ok := eventFromCallbackQuery(cb)
		if !ok {
			h.logger.Debug("unknown callback", zap.String("data", cb.Data))
			return
		}

		chatID := cb.From.ID
		if cb.Message != nil {
			chatID = cb.Message.Chat.ID
		}

		_ = h.withErrorHandling(ev.UserID, h.eventHandler(ev, cb))(ctx, chatID)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	ev, ok := eventFromMessage(update.Message)
	if !ok {
		return
	}

	h.logger.Debug("update received",
		logger.UserID(ev.UserID),
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.Int("event", int(ev.Kind)),
	)

	_ = h.withErrorHandling(ev.UserID, h.eventHandler(ev, nil))(ctx, update.Message.Chat.ID)
}

func (h *Handler) eventHandler(ev entities.Event, cb *tgbotapi.CallbackQuery) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		replies, err := h.conversation.Handle(ctx, ev)
		if err != nil {
			return fmt.Errorf("handle event: %w", err)
		}

		return h.render(chatID, cb, replies)
	}
}
