package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres"
)

// AnswerRepository provides access to the append-only answer log.
type AnswerRepository struct {
	db postgres.DBTX
}

func NewAnswerRepository(db postgres.DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Append inserts a log entry and sets its ID.
func (r *AnswerRepository) Append(ctx context.Context, entry *entities.AnswerLogEntry) error {
	query := `
		INSERT INTO answer_log (user_id, telegram_id, verb_id, is_correct, answered_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		entry.UserID,
		entry.TelegramID,
		entry.VerbID,
		entry.IsCorrect,
		entry.AnsweredAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("append answer: %w", err)
	}

	return nil
}

// CountBetween counts answers of a user row given in [since, until].
func (r *AnswerRepository) CountBetween(ctx context.Context, userID int64, since, until time.Time) (int, int, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM answer_log
		WHERE user_id = $1 AND answered_at >= $2 AND answered_at <= $3
	`

	var total, correct int
	if err := r.db.QueryRow(ctx, query, userID, since, until).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("count answers: %w", err)
	}

	return total, correct, nil
}

// CountDistinctVerbs counts the distinct verbs a user row has ever answered.
func (r *AnswerRepository) CountDistinctVerbs(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(DISTINCT verb_id) FROM answer_log WHERE user_id = $1`

	var n int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count distinct verbs: %w", err)
	}

	return n, nil
}
