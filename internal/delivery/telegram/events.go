package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

const (
	commandStart   = "start"
	commandCancel  = "cancel"
	commandHelp    = "help"
	commandHistory = "history"
)

// eventFromMessage maps an inbound message to an event.
func eventFromMessage(msg *tgbotapi.Message) (entities.Event, bool) {
	if msg == nil || msg.From == nil {
		return entities.Event{}, false
	}

	ev := entities.Event{
		UserID: msg.From.ID,
		Name:   msg.From.FirstName,
	}

	if msg.Contact != nil {
		// Only the sender's own contact registers an account.
		if msg.Contact.UserID != 0 && msg.Contact.UserID != msg.From.ID {
			ev.Kind = entities.EventText
			return ev, true
		}

		ev.Kind = entities.EventContact
		ev.Phone = msg.Contact.PhoneNumber
		if msg.Contact.FirstName != "" {
			ev.Name = msg.Contact.FirstName
		}
		return ev, true
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case commandStart:
			ev.Kind = entities.EventStart
		case commandCancel:
			ev.Kind = entities.EventCancel
		case commandHelp:
			ev.Kind = entities.EventHelp
		case commandHistory:
			ev.Kind = entities.EventHistory
		default:
			ev.Kind = entities.EventText
		}
		return ev, true
	}

	ev.Kind = entities.EventText
	return ev, true
}

// eventFromCallbackQuery maps a button press to an event.
func eventFromCallbackQuery(cb *tgbotapi.CallbackQuery) (entities.Event, bool) {
	if cb == nil || cb.From == nil {
		return entities.Event{}, false
	}

	ev, ok := eventFromCallback(cb.Data)
	if !ok {
		return entities.Event{}, false
	}

	ev.UserID = cb.From.ID
	ev.Name = cb.From.FirstName
	return ev, true
}

// updateUserID returns the sender of an update, or 0 when it has none.
func updateUserID(update tgbotapi.Update) int64 {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	}
	return 0
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message != nil:
		return "message"
	}
	return "other"
}
