package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/verben-quiz-bot/internal/logger"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs a failed handler and tells the user something went
// wrong. A user who blocked the bot is deactivated instead.
func (h *Handler) withErrorHandling(userID int64, fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if isBlocked(err) {
			h.logger.Info("user blocked the bot",
				logger.UserID(userID),
			)
			if err := h.users.Deactivate(ctx, userID); err != nil {
				h.logger.Warn("failed to deactivate user",
					logger.UserID(userID),
					zap.Error(err),
				)
			}
			return nil
		}

		h.logger.Error("handle error",
			logger.UserID(userID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}
