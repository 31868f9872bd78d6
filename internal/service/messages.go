package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

const (
	msgWelcome = "👋 Добро пожаловать в бот-квиз по немецким глаголам!\n\n" +
		"Для начала, пожалуйста, зарегистрируйтесь, нажав на кнопку ниже. " +
		"Нам нужен ваш номер телефона для ведения статистики."
	msgUseContactButton = "Пожалуйста, используйте кнопку, чтобы поделиться контактом."
	msgRegistered       = "🎉 Регистрация прошла успешно!"
	msgMainMenu         = "Главное меню"
	msgWelcomeBack      = "С возвращением, %s!"
	msgRecoverable      = "Произошла ошибка, давайте начнем сначала."
	msgUserNotFound     = "Мы не нашли вашу регистрацию. Пожалуйста, поделитесь контактом ещё раз."
	msgCancelled        = "Действие отменено."
	msgResetDone        = "Ваша статистика была успешно заархивирована и обнулена. Начинаем заново!"
	msgResetConfirm     = "⚠️ Вы уверены, что хотите обнулить свою статистику?\n\n" +
		"Все ваши текущие данные будут заархивированы, и вы начнете с чистого листа. Это действие необратимо."
	msgHelp = "🤖 Этот бот поможет вам выучить 3 формы немецких глаголов.\n\n" +
		"1️⃣ Нажмите «Начать квиз», чтобы запустить игру из %d вопросов.\n" +
		"2️⃣ На каждый вопрос будет 4 варианта ответа: 2 правильных и 2 неправильных.\n" +
		"3️⃣ Выбирайте тот вариант, который считаете верным.\n" +
		"4️⃣ В разделе «Моя статистика» вы можете отслеживать свой прогресс за день, неделю и месяц, а также сбросить его.\n\n" +
		"Удачи!"
)

const (
	btnStartQuiz    = "🚀 Начать квиз"
	btnShowStats    = "📊 Моя статистика"
	btnHelp         = "ℹ️ Справка"
	btnBackToMenu   = "⬅️ Назад в меню"
	btnResetStats   = "🔄 Обнулить статистику"
	btnResetConfirm = "✅ Да, обнулить"
	btnResetCancel  = "❌ Нет, вернуться"
)

func actionButton(label string, action entities.Action) []entities.Button {
	return []entities.Button{{Label: label, Action: action}}
}

func menuReply(text string) entities.Reply {
	return entities.Reply{
		Text: text,
		Buttons: [][]entities.Button{
			actionButton(btnStartQuiz, entities.ActionStartQuiz),
			actionButton(btnShowStats, entities.ActionShowStats),
			actionButton(btnHelp, entities.ActionHelp),
		},
	}
}

func askContactReply(text string) entities.Reply {
	return entities.Reply{Text: text, RequestContact: true}
}

func helpReply(totalQuestions int) entities.Reply {
	return entities.Reply{
		Text:    fmt.Sprintf(msgHelp, totalQuestions),
		Buttons: [][]entities.Button{actionButton(btnBackToMenu, entities.ActionBackToMenu)},
	}
}

func questionReply(quiz *entities.QuizSession) entities.Reply {
	rows := make([][]entities.Button, 0, len(quiz.Options))
	for i, option := range quiz.Options {
		rows = append(rows, []entities.Button{{
			Label:     option.Text,
			SessionID: quiz.ID,
			Question:  quiz.QuestionNum,
			Choice:    i,
		}})
	}

	return entities.Reply{
		Text: fmt.Sprintf(
			"Вопрос %d/%d\n\nВыберите правильные формы Präteritum и Partizip II для глагола: %s",
			quiz.QuestionNum, quiz.TotalQuestions, quiz.Verb.Infinitive,
		),
		Buttons: rows,
	}
}

func answerReply(result *entities.AnswerResult) entities.Reply {
	text := "❌ Неверно.\n\nПравильный ответ: " + result.Verb.Forms()
	if result.IsCorrect {
		text = "✅ Верно!\n\n" + result.Verb.Forms()
	}
	return entities.Reply{Text: text, Pause: true}
}

func quizFinishedReply(score, total int) entities.Reply {
	return menuReply(fmt.Sprintf(
		"🎉 Квиз завершен!\n\nВаш результат: %d из %d правильных ответов.",
		score, total,
	))
}

func statsReply(stats *entities.Stats) entities.Reply {
	var sb strings.Builder

	sb.WriteString("📊 Ваша статистика\n\n")
	sb.WriteString(fmt.Sprintf("Всего сыграно квизов: %d\n\n", stats.GamesPlayed))
	writeWindow(&sb, "За последний день:", stats.Day)
	sb.WriteString("\n\n")
	writeWindow(&sb, "За последнюю неделю:", stats.Week)
	sb.WriteString("\n\n")
	writeWindow(&sb, "За последний месяц:", stats.Month)

	return entities.Reply{
		Text: sb.String(),
		Buttons: [][]entities.Button{
			actionButton(btnResetStats, entities.ActionResetConfirm),
			actionButton(btnBackToMenu, entities.ActionBackToMenu),
		},
	}
}

func writeWindow(sb *strings.Builder, title string, ws entities.WindowStats) {
	sb.WriteString(title)
	sb.WriteString(fmt.Sprintf("\n  Правильно: %d из %d (%.1f%%)", ws.Correct, ws.Total, ws.Percentage))
}

func resetConfirmReply() entities.Reply {
	return entities.Reply{
		Text: msgResetConfirm,
		Buttons: [][]entities.Button{
			actionButton(btnResetConfirm, entities.ActionResetDo),
			actionButton(btnResetCancel, entities.ActionShowStats),
		},
	}
}

type archiveSummary struct {
	ArchivedAt time.Time
	Stats      *entities.Stats
}

func historyReply(archives []archiveSummary) entities.Reply {
	reply := entities.Reply{
		Buttons: [][]entities.Button{actionButton(btnBackToMenu, entities.ActionBackToMenu)},
	}

	if len(archives) == 0 {
		reply.Text = "📦 Архив пуст: вы ещё не обнуляли статистику."
		return reply
	}

	var sb strings.Builder
	sb.WriteString("📦 Архив статистики\n")
	for _, a := range archives {
		sb.WriteString(fmt.Sprintf(
			"\n%s — глаголов: %d, за последний месяц правильно %d из %d (%.1f%%)",
			a.ArchivedAt.Format("02.01.2006 15:04"),
			a.Stats.GamesPlayed,
			a.Stats.Month.Correct,
			a.Stats.Month.Total,
			a.Stats.Month.Percentage,
		))
	}
	reply.Text = sb.String()

	return reply
}
