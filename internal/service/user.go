package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
)

// archiveKeyLayout truncates the archival time to the minute.
const archiveKeyLayout = "2006-01-02_15-04"

// UserService owns the active/archived lifecycle of user identities.
type UserService struct {
	repository UserRepository
	metrics    Metrics
	now        func() time.Time
}

func NewUserService(repository UserRepository, metrics Metrics) *UserService {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UserService{
		repository: repository,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Active returns the active user row for a Telegram ID.
func (s *UserService) Active(ctx context.Context, telegramID int64) (*entities.User, error) {
	return s.repository.GetActive(ctx, telegramID)
}

// History returns every row ever registered for a Telegram ID, newest first.
func (s *UserService) History(ctx context.Context, telegramID int64) ([]*entities.User, error) {
	return s.repository.ListByTelegramID(ctx, telegramID)
}

// Register makes sure an active row exists for the Telegram ID.
//
// An existing active row is returned unchanged. A row deactivated without
// archiving is reactivated in place. Otherwise a fresh row is inserted, so a
// user who archived their statistics starts over with an empty log.
func (s *UserService) Register(ctx context.Context, telegramID int64, phone, name string) (*entities.User, error) {
	user, err := s.repository.GetActive(ctx, telegramID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("get active user: %w", err)
	}

	user, err = s.activate(ctx, telegramID, phone, name)
	if errors.Is(err, entities.ErrUserExists) {
		// Lost a race against a concurrent registration.
		return s.repository.GetActive(ctx, telegramID)
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) activate(ctx context.Context, telegramID int64, phone, name string) (*entities.User, error) {
	user, err := s.repository.GetDeactivated(ctx, telegramID)
	switch {
	case err == nil:
		if err := s.repository.Reactivate(ctx, user.ID, phone, name); err != nil {
			return nil, fmt.Errorf("reactivate user: %w", err)
		}
		user.IsActive = true
		user.Phone = phone
		user.Name = name
		s.metrics.RecordRegistration(true)
		return user, nil

	case !errors.Is(err, entities.ErrUserNotFound):
		return nil, fmt.Errorf("get deactivated user: %w", err)
	}

	user = entities.NewUser(telegramID, phone, name)
	user.RegisteredAt = s.now()
	if err := s.repository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.metrics.RecordRegistration(false)

	return user, nil
}

// Archive retires the active row of a Telegram user and returns its archive key.
// The answer log of the row is left untouched.
func (s *UserService) Archive(ctx context.Context, telegramID int64) (string, error) {
	user, err := s.repository.GetActive(ctx, telegramID)
	if err != nil {
		return "", fmt.Errorf("get active user: %w", err)
	}

	at := s.now()
	key := ArchiveKey(user.Phone, at, user.ID)
	if err := s.repository.Archive(ctx, user.ID, key, at); err != nil {
		return "", fmt.Errorf("archive user: %w", err)
	}
	s.metrics.RecordArchive()

	return key, nil
}

// Deactivate marks the active row inactive without archiving it,
// e.g. when the user blocked the bot.
func (s *UserService) Deactivate(ctx context.Context, telegramID int64) error {
	return s.repository.Deactivate(ctx, telegramID)
}

// ArchiveKey builds the unique tag of an archived row.
// The minute-precision timestamp alone repeats on quick successive resets,
// the row id suffix keeps the key unique.
func ArchiveKey(phone string, at time.Time, userID int64) string {
	return fmt.Sprintf("%s_old_%s_%d", phone, at.Format(archiveKeyLayout), userID)
}
