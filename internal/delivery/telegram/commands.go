package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Commands lists the commands published in the Telegram client menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{
			Command:     commandStart,
			Description: "Запустить бота",
		},
		{
			Command:     commandHelp,
			Description: "Помощь",
		},
		{
			Command:     commandHistory,
			Description: "Архив статистики",
		},
		{
			Command:     commandCancel,
			Description: "Отменить текущее действие",
		},
	}
}
