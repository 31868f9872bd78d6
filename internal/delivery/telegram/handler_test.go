package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (b *fakeBot) StopReceivingUpdates() {}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, b.sendErr
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeConversation struct {
	events  []entities.Event
	replies []entities.Reply
	err     error
}

func (c *fakeConversation) Handle(_ context.Context, ev entities.Event) ([]entities.Reply, error) {
	c.events = append(c.events, ev)
	return c.replies, c.err
}

type fakeUsers struct {
	deactivated []int64
}

func (u *fakeUsers) Deactivate(_ context.Context, telegramID int64) error {
	u.deactivated = append(u.deactivated, telegramID)
	return nil
}

func newTestHandler(bot *fakeBot, conv *fakeConversation, users *fakeUsers) *Handler {
	return NewHandler(bot, zap.NewNop(), conv, users, nil, Options{})
}

func TestHandleUpdate_MessageSendsReplies(t *testing.T) {
	bot := &fakeBot{}
	conv := &fakeConversation{replies: []entities.Reply{
		{Text: "Регистрация прошла успешно!", RemoveKeyboard: true},
		{Text: "Главное меню", Buttons: [][]entities.Button{{{Label: "Квиз", Action: entities.ActionStartQuiz}}}},
	}}
	h := newTestHandler(bot, conv, &fakeUsers{})

	h.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "start")})

	if len(conv.events) != 1 || conv.events[0].Kind != entities.EventStart {
		t.Fatalf("events = %+v, want one start event", conv.events)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(bot.sent))
	}

	first, ok := bot.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("first sent = %T, want MessageConfig", bot.sent[0])
	}
	if _, ok := first.ReplyMarkup.(tgbotapi.ReplyKeyboardRemove); !ok {
		t.Errorf("first reply markup = %T, want ReplyKeyboardRemove", first.ReplyMarkup)
	}

	second := bot.sent[1].(tgbotapi.MessageConfig)
	if second.ChatID != 7 || second.Text != "Главное меню" {
		t.Errorf("second message = %d %q", second.ChatID, second.Text)
	}
	if _, ok := second.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); !ok {
		t.Errorf("second reply markup = %T, want InlineKeyboardMarkup", second.ReplyMarkup)
	}
}

func TestHandleUpdate_CallbackEditsPressedMessage(t *testing.T) {
	bot := &fakeBot{}
	conv := &fakeConversation{replies: []entities.Reply{
		{Text: "✅ Верно!", Pause: true},
		{Text: "Вопрос 2/10"},
	}}
	h := newTestHandler(bot, conv, &fakeUsers{})

	cb := &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: 7},
		Data: buildChoiceCallback("session-1", 5, 2),
		Message: &tgbotapi.Message{
			MessageID: 42,
			Chat:      &tgbotapi.Chat{ID: 7},
		},
	}
	h.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: cb})

	if len(conv.events) != 1 {
		t.Fatalf("events = %d, want 1", len(conv.events))
	}
	ev := conv.events[0]
	if ev.Kind != entities.EventChoice || ev.SessionID != "session-1" || ev.Question != 5 || ev.Choice != 2 || ev.UserID != 7 {
		t.Errorf("event = %+v", ev)
	}

	if len(bot.sent) != 2 {
		t.Fatalf("sent %d chattables, want 2", len(bot.sent))
	}
	edit, ok := bot.sent[0].(tgbotapi.EditMessageTextConfig)
	if !ok {
		t.Fatalf("first sent = %T, want EditMessageTextConfig", bot.sent[0])
	}
	if edit.MessageID != 42 || edit.Text != "✅ Верно!" {
		t.Errorf("edit = %d %q", edit.MessageID, edit.Text)
	}
	if _, ok := bot.sent[1].(tgbotapi.MessageConfig); !ok {
		t.Errorf("second sent = %T, want MessageConfig", bot.sent[1])
	}

	if len(bot.requests) == 0 {
		t.Fatal("callback was not answered")
	}
	if _, ok := bot.requests[0].(tgbotapi.CallbackConfig); !ok {
		t.Errorf("first request = %T, want CallbackConfig", bot.requests[0])
	}
}

func TestHandleUpdate_ConversationErrorSendsGenericMessage(t *testing.T) {
	bot := &fakeBot{}
	conv := &fakeConversation{err: errors.New("db down")}
	h := newTestHandler(bot, conv, &fakeUsers{})

	h.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "start")})

	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
	if msg := bot.sent[0].(tgbotapi.MessageConfig); msg.Text != msgInternalError {
		t.Errorf("text = %q, want internal error message", msg.Text)
	}
}

func TestHandleUpdate_BlockedUserIsDeactivated(t *testing.T) {
	bot := &fakeBot{sendErr: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}
	conv := &fakeConversation{replies: []entities.Reply{{Text: "Главное меню"}}}
	users := &fakeUsers{}
	h := newTestHandler(bot, conv, users)

	h.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(7, "start")})

	if len(users.deactivated) != 1 || users.deactivated[0] != 7 {
		t.Fatalf("deactivated = %v, want [7]", users.deactivated)
	}
	if len(bot.sent) != 1 {
		t.Errorf("sent %d messages, want only the failed one", len(bot.sent))
	}
}

func TestHandleUpdate_UnknownCallbackIgnored(t *testing.T) {
	bot := &fakeBot{}
	conv := &fakeConversation{}
	h := newTestHandler(bot, conv, &fakeUsers{})

	h.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-2",
		From: &tgbotapi.User{ID: 7},
		Data: "name:3",
	}})

	if len(conv.events) != 0 {
		t.Errorf("events = %+v, want none", conv.events)
	}
	if len(bot.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(bot.sent))
	}
}

func TestHandleUpdate_PauseOutlivesCancelledContext(t *testing.T) {
	const delay = 50 * time.Millisecond

	bot := &fakeBot{}
	conv := &fakeConversation{replies: []entities.Reply{
		{Text: "❌ Неверно", Pause: true},
		{Text: "Вопрос 3/10"},
	}}
	h := NewHandler(bot, zap.NewNop(), conv, &fakeUsers{}, nil, Options{AnswerDelay: delay})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	h.handleUpdate(ctx, tgbotapi.Update{Message: commandMessage(7, "start")})

	if elapsed := time.Since(start); elapsed < delay {
		t.Errorf("pause took %v, want at least %v", elapsed, delay)
	}
	if len(bot.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(bot.sent))
	}
	if len(bot.requests) != 1 {
		t.Fatalf("requests = %d, want one typing action", len(bot.requests))
	}
	if _, ok := bot.requests[0].(tgbotapi.ChatActionConfig); !ok {
		t.Errorf("request = %T, want ChatActionConfig", bot.requests[0])
	}
}
