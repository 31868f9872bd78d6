package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/verben-quiz-bot/internal/logger"
)

// Conversation maps inbound events onto the quiz, stats and user services
// according to the dialog state of each user.
type Conversation struct {
	users    *UserService
	quiz     *QuizService
	stats    *StatsService
	sessions SessionStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewConversation(
	users *UserService,
	quiz *QuizService,
	stats *StatsService,
	sessions SessionStore,
	logger *zap.Logger,
) *Conversation {
	return &Conversation{
		users:    users,
		quiz:     quiz,
		stats:    stats,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle applies one event and returns the replies to render, in order.
// Invalid transitions are recovered here; other errors are returned.
func (c *Conversation) Handle(ctx context.Context, ev entities.Event) ([]entities.Reply, error) {
	session, err := loadSession(ctx, c.sessions, ev.UserID)
	if err != nil {
		return nil, err
	}

	replies, err := c.dispatch(ctx, session, ev)
	switch {
	case err == nil:
		return replies, nil

	case errors.Is(err, entities.ErrInvalidState), errors.Is(err, entities.ErrOutOfRangeChoice):
		c.logger.Debug("invalid transition",
			logger.UserID(ev.UserID),
			zap.String("state", string(session.State)),
			zap.Error(err),
		)
		return c.recoverState(ctx, ev.UserID)

	case errors.Is(err, entities.ErrUserNotFound):
		if err := c.quiz.Abandon(ctx, ev.UserID, entities.StateAskContact); err != nil {
			return nil, err
		}
		return []entities.Reply{askContactReply(msgUserNotFound)}, nil
	}

	return nil, err
}

func (c *Conversation) dispatch(ctx context.Context, session *entities.Session, ev entities.Event) ([]entities.Reply, error) {
	switch ev.Kind {
	case entities.EventStart:
		return c.start(ctx, ev.UserID, "")
	case entities.EventCancel:
		return c.cancel(ctx, ev.UserID)
	case entities.EventContact:
		return c.register(ctx, session, ev)
	case entities.EventText:
		return c.text(ctx, session)
	case entities.EventHelp:
		return c.action(ctx, session, entities.ActionHelp)
	case entities.EventAction:
		return c.action(ctx, session, ev.Action)
	case entities.EventChoice:
		return c.answer(ctx, ev)
	case entities.EventHistory:
		return c.history(ctx, ev.UserID)
	}

	return nil, fmt.Errorf("unknown event kind %d: %w", ev.Kind, entities.ErrInvalidState)
}

// start greets a registered user with the menu or asks a new one for a contact.
func (c *Conversation) start(ctx context.Context, userID int64, prefix string) ([]entities.Reply, error) {
	user, err := c.users.Active(ctx, userID)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}

	if user == nil {
		if err := c.quiz.Abandon(ctx, userID, entities.StateAskContact); err != nil {
			return nil, err
		}
		return append(prefixReplies(prefix), askContactReply(msgWelcome)), nil
	}

	if err := c.quiz.Abandon(ctx, userID, entities.StateMenu); err != nil {
		return nil, err
	}
	return append(prefixReplies(prefix), menuReply(fmt.Sprintf(msgWelcomeBack, user.Name))), nil
}

func (c *Conversation) cancel(ctx context.Context, userID int64) ([]entities.Reply, error) {
	if err := c.sessions.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete session: %w", err)
	}
	return []entities.Reply{{Text: msgCancelled, RemoveKeyboard: true}}, nil
}

func (c *Conversation) register(ctx context.Context, session *entities.Session, ev entities.Event) ([]entities.Reply, error) {
	// A lost session (e.g. after a restart) still accepts the contact.
	if session.State != entities.StateAskContact && session.State != entities.StateNone {
		return nil, entities.ErrInvalidState
	}

	user, err := c.users.Register(ctx, ev.UserID, ev.Phone, ev.Name)
	if err != nil {
		return nil, err
	}

	c.logger.Info("user registered",
		logger.UserID(ev.UserID),
		zap.Int64("row_id", user.ID),
	)

	if err := c.quiz.Abandon(ctx, ev.UserID, entities.StateMenu); err != nil {
		return nil, err
	}

	return []entities.Reply{
		{Text: msgRegistered, RemoveKeyboard: true},
		menuReply(msgMainMenu),
	}, nil
}

func (c *Conversation) text(ctx context.Context, session *entities.Session) ([]entities.Reply, error) {
	switch session.State {
	case entities.StateAskContact:
		return []entities.Reply{askContactReply(msgUseContactButton)}, nil
	case entities.StateNone:
		return c.start(ctx, session.UserID, "")
	}
	return nil, nil
}

func (c *Conversation) action(ctx context.Context, session *entities.Session, action entities.Action) ([]entities.Reply, error) {
	// Valid from any state.
	if action == entities.ActionBackToMenu {
		return c.toMenu(ctx, session.UserID, msgMainMenu)
	}

	switch session.State {
	case entities.StateMenu:
		switch action {
		case entities.ActionStartQuiz:
			return c.startQuiz(ctx, session.UserID)
		case entities.ActionShowStats:
			return c.showStats(ctx, session.UserID)
		case entities.ActionHelp:
			return []entities.Reply{helpReply(c.quiz.totalQuestions)}, nil
		}

	case entities.StateStatsView:
		switch action {
		case entities.ActionShowStats:
			return c.showStats(ctx, session.UserID)
		case entities.ActionResetConfirm:
			return []entities.Reply{resetConfirmReply()}, nil
		case entities.ActionResetDo:
			return c.reset(ctx, session.UserID)
		}
	}

	return nil, fmt.Errorf("action %q in state %q: %w", action, session.State, entities.ErrInvalidState)
}

func (c *Conversation) startQuiz(ctx context.Context, userID int64) ([]entities.Reply, error) {
	if _, err := c.users.Active(ctx, userID); err != nil {
		return nil, err
	}

	quiz, err := c.quiz.Start(ctx, userID)
	if err != nil {
		return nil, err
	}

	return []entities.Reply{questionReply(quiz)}, nil
}

func (c *Conversation) answer(ctx context.Context, ev entities.Event) ([]entities.Reply, error) {
	result, err := c.quiz.Submit(ctx, ev.UserID, ev.SessionID, ev.Question, ev.Choice)
	if err != nil {
		return nil, err
	}

	replies := []entities.Reply{answerReply(result)}
	if result.Finished {
		return append(replies, quizFinishedReply(result.Score, result.Total)), nil
	}

	return append(replies, questionReply(result.Next)), nil
}

func (c *Conversation) showStats(ctx context.Context, userID int64) ([]entities.Reply, error) {
	stats, err := c.stats.Compute(ctx, userID, c.now())
	if err != nil {
		return nil, err
	}

	if err := c.quiz.Abandon(ctx, userID, entities.StateStatsView); err != nil {
		return nil, err
	}

	return []entities.Reply{statsReply(stats)}, nil
}

func (c *Conversation) reset(ctx context.Context, userID int64) ([]entities.Reply, error) {
	key, err := c.users.Archive(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.logger.Info("stats reset",
		logger.UserID(userID),
		zap.String("archive_key", key),
	)

	return c.start(ctx, userID, msgResetDone)
}

// history lists the archived identities of the user with their statistics
// as they were at the moment of archiving.
func (c *Conversation) history(ctx context.Context, userID int64) ([]entities.Reply, error) {
	if _, err := c.users.Active(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := c.users.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	archives := make([]archiveSummary, 0, len(rows))
	for _, u := range rows {
		if !u.IsArchived() || u.ArchivedAt == nil {
			continue
		}
		stats, err := c.stats.ComputeForUser(ctx, u.ID, *u.ArchivedAt)
		if err != nil {
			return nil, err
		}
		archives = append(archives, archiveSummary{ArchivedAt: *u.ArchivedAt, Stats: stats})
	}

	return []entities.Reply{historyReply(archives)}, nil
}

func (c *Conversation) toMenu(ctx context.Context, userID int64, text string) ([]entities.Reply, error) {
	if err := c.quiz.Abandon(ctx, userID, entities.StateMenu); err != nil {
		return nil, err
	}
	return []entities.Reply{menuReply(text)}, nil
}

// recoverState puts the user back to a safe state after an invalid transition.
func (c *Conversation) recoverState(ctx context.Context, userID int64) ([]entities.Reply, error) {
	_, err := c.users.Active(ctx, userID)
	if errors.Is(err, entities.ErrUserNotFound) {
		return c.start(ctx, userID, "")
	}
	if err != nil {
		return nil, err
	}

	return c.toMenu(ctx, userID, msgRecoverable)
}

func prefixReplies(text string) []entities.Reply {
	if text == "" {
		return nil
	}
	return []entities.Reply{{Text: text}}
}
