package service

import (
	"context"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// VerbRepository provides read access to the verb catalog.
type VerbRepository interface {
	Random(ctx context.Context, n int) ([]entities.Verb, error)
}

// UserRepository manages user rows.
type UserRepository interface {
	GetActive(ctx context.Context, telegramID int64) (*entities.User, error)
	GetDeactivated(ctx context.Context, telegramID int64) (*entities.User, error)
	ListByTelegramID(ctx context.Context, telegramID int64) ([]*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	Reactivate(ctx context.Context, id int64, phone, name string) error
	Archive(ctx context.Context, id int64, archiveKey string, archivedAt time.Time) error
	Deactivate(ctx context.Context, telegramID int64) error
}

// AnswerRepository manages the append-only answer log.
type AnswerRepository interface {
	Append(ctx context.Context, entry *entities.AnswerLogEntry) error
	CountBetween(ctx context.Context, userID int64, since, until time.Time) (total, correct int, err error)
	CountDistinctVerbs(ctx context.Context, userID int64) (int, error)
}

// SessionStore keeps per-user conversation state.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (*entities.Session, error)
	Save(ctx context.Context, session *entities.Session) error
	Delete(ctx context.Context, userID int64) error
}

// Metrics receives domain events for observability.
type Metrics interface {
	RecordQuizStarted()
	RecordAnswer(isCorrect bool)
	RecordQuizFinished(score, total int)
	RecordRegistration(reactivated bool)
	RecordArchive()
}

type nopMetrics struct{}

func (nopMetrics) RecordQuizStarted()          {}
func (nopMetrics) RecordAnswer(bool)           {}
func (nopMetrics) RecordQuizFinished(int, int) {}
func (nopMetrics) RecordRegistration(bool)     {}
func (nopMetrics) RecordArchive()              {}
