package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

const btnShareContact = "📱 Поделиться контактом"

// buildInlineKeyboard converts reply buttons into an inline keyboard.
func buildInlineKeyboard(buttons [][]entities.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, line := range buttons {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(line))
		for _, b := range line {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, buildButtonCallback(b)))
		}
		rows = append(rows, row)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildContactKeyboard builds the one-time keyboard asking for the user's phone.
func buildContactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(btnShareContact),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

// replyMarkup picks the keyboard to attach to a newly sent message.
func replyMarkup(r entities.Reply) any {
	switch {
	case r.RequestContact:
		return buildContactKeyboard()
	case r.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(true)
	}

	if kb := buildInlineKeyboard(r.Buttons); kb != nil {
		return *kb
	}
	return nil
}

// editable reports whether a reply can replace the text of an inline message.
// Reply keyboards can only be attached to new messages.
func editable(r entities.Reply) bool {
	return !r.RequestContact && !r.RemoveKeyboard
}
