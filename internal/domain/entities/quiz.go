package entities

import (
	"time"

	"github.com/google/uuid"
)

// QuizSession is the ephemeral state of a running quiz.
// It is kept per user and is never persisted to the database.
type QuizSession struct {
	ID             string         `json:"id"`              // random id, guards against stale buttons
	UserID         int64          `json:"user_id"`         // Telegram user ID
	QuestionNum    int            `json:"question_num"`    // current question, 1-based
	TotalQuestions int            `json:"total_questions"` // fixed length of the quiz
	Score          int            `json:"score"`           // correct answers so far
	Verb           Verb           `json:"verb"`            // verb currently asked
	Options        []AnswerOption `json:"options"`         // options of the current question
	StartedAt      time.Time      `json:"started_at"`
}

// NewQuizSession creates a quiz positioned on its first question.
func NewQuizSession(userID int64, totalQuestions int) *QuizSession {
	return &QuizSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuestionNum:    1,
		TotalQuestions: totalQuestions,
		StartedAt:      time.Now(),
	}
}

// SetQuestion replaces the current question.
func (qs *QuizSession) SetQuestion(verb Verb, options []AnswerOption) {
	qs.Verb = verb
	qs.Options = options
}

// Advance records the answer to the current question and moves on.
// It reports whether the quiz is over.
func (qs *QuizSession) Advance(isCorrect bool) bool {
	if isCorrect {
		qs.Score++
	}
	qs.QuestionNum++
	return qs.QuestionNum > qs.TotalQuestions
}

// AnswerResult describes the outcome of a submitted answer.
type AnswerResult struct {
	Verb      Verb         // verb that was asked
	IsCorrect bool         // whether the chosen option was correct
	Finished  bool         // true after the last question
	Score     int          // running (or final) score
	Total     int          // number of questions in the quiz
	Next      *QuizSession // next question, nil when finished
}
