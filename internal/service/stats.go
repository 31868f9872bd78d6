package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// StatsService aggregates the answer log into rolling-window statistics.
type StatsService struct {
	users   UserRepository
	answers AnswerRepository
}

func NewStatsService(users UserRepository, answers AnswerRepository) *StatsService {
	return &StatsService{
		users:   users,
		answers: answers,
	}
}

// Compute returns the statistics of the active identity of a Telegram user.
func (s *StatsService) Compute(ctx context.Context, telegramID int64, asOf time.Time) (*entities.Stats, error) {
	user, err := s.users.GetActive(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get active user: %w", err)
	}

	return s.ComputeForUser(ctx, user.ID, asOf)
}

// ComputeForUser returns the statistics of one user row, active or archived.
func (s *StatsService) ComputeForUser(ctx context.Context, userID int64, asOf time.Time) (*entities.Stats, error) {
	var (
		stats entities.Stats
		err   error
	)

	if stats.Day, err = s.window(ctx, userID, asOf, entities.WindowDay); err != nil {
		return nil, err
	}
	if stats.Week, err = s.window(ctx, userID, asOf, entities.WindowWeek); err != nil {
		return nil, err
	}
	if stats.Month, err = s.window(ctx, userID, asOf, entities.WindowMonth); err != nil {
		return nil, err
	}

	stats.GamesPlayed, err = s.answers.CountDistinctVerbs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count distinct verbs: %w", err)
	}

	return &stats, nil
}

func (s *StatsService) window(
	ctx context.Context, userID int64, asOf time.Time, length time.Duration,
) (entities.WindowStats, error) {
	total, correct, err := s.answers.CountBetween(ctx, userID, asOf.Add(-length), asOf)
	if err != nil {
		return entities.WindowStats{}, fmt.Errorf("count answers for %s window: %w", length, err)
	}
	return entities.NewWindowStats(total, correct), nil
}
