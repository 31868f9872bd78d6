package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// DefaultQuizQuestions is the number of questions in one quiz.
const DefaultQuizQuestions = 10

// verbPoolSize is the target verb plus its companions.
const verbPoolSize = 4

// QuizService drives the question sequence of a quiz.
type QuizService struct {
	verbs          VerbRepository
	users          UserRepository
	answers        AnswerRepository
	sessions       SessionStore
	metrics        Metrics
	totalQuestions int
}

// NewQuizService creates a QuizService. A non-positive totalQuestions falls back to the default.
func NewQuizService(
	verbs VerbRepository,
	users UserRepository,
	answers AnswerRepository,
	sessions SessionStore,
	metrics Metrics,
	totalQuestions int,
) *QuizService {
	if totalQuestions <= 0 {
		totalQuestions = DefaultQuizQuestions
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &QuizService{
		verbs:          verbs,
		users:          users,
		answers:        answers,
		sessions:       sessions,
		metrics:        metrics,
		totalQuestions: totalQuestions,
	}
}

// Start begins a new quiz for the user, replacing any running one.
func (s *QuizService) Start(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	session, err := loadSession(ctx, s.sessions, userID)
	if err != nil {
		return nil, err
	}

	quiz := entities.NewQuizSession(userID, s.totalQuestions)
	if err := s.nextQuestion(ctx, quiz); err != nil {
		return nil, err
	}

	session.State = entities.StateQuiz
	session.Quiz = quiz
	if err := saveSession(ctx, s.sessions, session); err != nil {
		return nil, err
	}

	s.metrics.RecordQuizStarted()

	return quiz, nil
}

// Current returns the running quiz of the user.
func (s *QuizService) Current(ctx context.Context, userID int64) (*entities.QuizSession, error) {
	session, err := loadSession(ctx, s.sessions, userID)
	if err != nil {
		return nil, err
	}
	if session.State != entities.StateQuiz || session.Quiz == nil {
		return nil, entities.ErrInvalidState
	}
	return session.Quiz, nil
}

// Submit checks the chosen option, logs the answer and advances the quiz.
// A button from another quiz or an already answered question is stale.
// An empty sessionID skips the stale-button check.
func (s *QuizService) Submit(
	ctx context.Context,
	userID int64,
	sessionID string,
	question int,
	choice int,
) (*entities.AnswerResult, error) {
	session, err := loadSession(ctx, s.sessions, userID)
	if err != nil {
		return nil, err
	}

	quiz := session.Quiz
	if session.State != entities.StateQuiz || quiz == nil {
		return nil, entities.ErrInvalidState
	}
	if sessionID != "" && sessionID != quiz.ID {
		return nil, fmt.Errorf("stale quiz session %s: %w", sessionID, entities.ErrInvalidState)
	}
	if sessionID != "" && question != quiz.QuestionNum {
		return nil, fmt.Errorf("answer to question %d, current is %d: %w",
			question, quiz.QuestionNum, entities.ErrInvalidState)
	}
	if choice < 0 || choice >= len(quiz.Options) {
		return nil, fmt.Errorf("choice %d of %d: %w", choice, len(quiz.Options), entities.ErrOutOfRangeChoice)
	}

	user, err := s.users.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get active user: %w", err)
	}

	isCorrect := quiz.Options[choice].IsCorrect
	if err := s.answers.Append(ctx, entities.NewAnswerLogEntry(user, quiz.Verb.ID, isCorrect)); err != nil {
		return nil, fmt.Errorf("log answer: %w", err)
	}
	s.metrics.RecordAnswer(isCorrect)

	result := &entities.AnswerResult{
		Verb:      quiz.Verb,
		IsCorrect: isCorrect,
		Total:     quiz.TotalQuestions,
	}

	if quiz.Advance(isCorrect) {
		result.Finished = true
		result.Score = quiz.Score

		session.State = entities.StateMenu
		session.Quiz = nil
		if err := saveSession(ctx, s.sessions, session); err != nil {
			return nil, err
		}

		s.metrics.RecordQuizFinished(quiz.Score, quiz.TotalQuestions)
		return result, nil
	}

	if err := s.nextQuestion(ctx, quiz); err != nil {
		return nil, err
	}
	if err := saveSession(ctx, s.sessions, session); err != nil {
		return nil, err
	}

	result.Score = quiz.Score
	result.Next = quiz

	return result, nil
}

// Abandon drops the running quiz, if any, and moves the user to the given state.
func (s *QuizService) Abandon(ctx context.Context, userID int64, state entities.ConversationState) error {
	session, err := loadSession(ctx, s.sessions, userID)
	if err != nil {
		return err
	}

	session.State = state
	session.Quiz = nil

	return saveSession(ctx, s.sessions, session)
}

func (s *QuizService) nextQuestion(ctx context.Context, quiz *entities.QuizSession) error {
	pool, err := s.verbs.Random(ctx, verbPoolSize)
	if err != nil {
		return fmt.Errorf("draw verbs: %w", err)
	}
	if len(pool) == 0 {
		return entities.ErrNoVerbs
	}

	target := pool[0]
	quiz.SetQuestion(target, GenerateAnswers(target, pool))

	return nil
}

// loadSession returns the stored session or a fresh one.
func loadSession(ctx context.Context, store SessionStore, userID int64) (*entities.Session, error) {
	session, err := store.Get(ctx, userID)
	if errors.Is(err, entities.ErrSessionNotFound) {
		return entities.NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

func saveSession(ctx context.Context, store SessionStore, session *entities.Session) error {
	session.UpdatedAt = time.Now()
	if err := store.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
