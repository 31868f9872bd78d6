package telegram

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// render delivers replies in order. When the event came from an inline
// button, the first editable reply replaces the pressed message.
func (h *Handler) render(chatID int64, cb *tgbotapi.CallbackQuery, replies []entities.Reply) error {
	for i, r := range replies {
		var err error
		if i == 0 && cb != nil && cb.Message != nil && editable(r) {
			err = h.editReply(cb.Message.Chat.ID, cb.Message.MessageID, r)
		} else {
			err = h.sendReply(chatID, r)
		}
		if err != nil {
			return err
		}

		if r.Pause && i < len(replies)-1 {
			h.pause(chatID)
		}
	}

	return nil
}

func (h *Handler) sendReply(chatID int64, r entities.Reply) error {
	msg := newMessage(chatID, r.Text)
	if markup := replyMarkup(r); markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := h.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (h *Handler) editReply(chatID int64, messageID int, r entities.Reply) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, r.Text)
	if kb := buildInlineKeyboard(r.Buttons); kb != nil {
		edit.ReplyMarkup = kb
	}

	if _, err := h.bot.Send(edit); err != nil && !isNotModified(err) {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// pause shows a typing indicator and holds the user's queue for the answer delay.
// The delay runs to completion even during shutdown so the next question is not lost.
func (h *Handler) pause(chatID int64) {
	if h.answerDelay <= 0 {
		return
	}

	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug("failed to send chat action", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	time.Sleep(h.answerDelay)
}

// answerCallback removes the loading indicator from the pressed button.
func (h *Handler) answerCallback(id string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
