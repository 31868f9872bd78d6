package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres"
)

const userColumns = `id, telegram_id, phone_number, first_name, registered_at, is_active, archive_key, archived_at`

// UserRepository provides access to user rows in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database handle.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// GetActive retrieves the active row of a Telegram user.
func (r *UserRepository) GetActive(ctx context.Context, telegramID int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE telegram_id = $1 AND is_active
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		return nil, fmt.Errorf("get active user: %w", err)
	}

	return user, nil
}

// GetDeactivated retrieves the latest inactive row that was not archived.
func (r *UserRepository) GetDeactivated(ctx context.Context, telegramID int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE telegram_id = $1 AND NOT is_active AND archive_key IS NULL
		ORDER BY id DESC
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, telegramID))
	if err != nil {
		return nil, fmt.Errorf("get deactivated user: %w", err)
	}

	return user, nil
}

// ListByTelegramID returns all rows of a Telegram user, newest first.
func (r *UserRepository) ListByTelegramID(ctx context.Context, telegramID int64) ([]*entities.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE telegram_id = $1
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, telegramID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Create inserts a new active row and sets its ID.
// It returns entities.ErrUserExists if the Telegram user already has an active row.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (telegram_id, phone_number, first_name, registered_at, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, user.TelegramID, user.Phone, user.Name, user.RegisteredAt).Scan(&user.ID)
	if postgres.IsUniqueViolation(err) {
		return entities.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	user.IsActive = true

	return nil
}

// Reactivate turns a deactivated, non-archived row back into the active one.
func (r *UserRepository) Reactivate(ctx context.Context, id int64, phone, name string) error {
	query := `
		UPDATE users
		SET is_active = TRUE, phone_number = $2, first_name = $3
		WHERE id = $1 AND NOT is_active AND archive_key IS NULL
	`

	tag, err := r.db.Exec(ctx, query, id, phone, name)
	if postgres.IsUniqueViolation(err) {
		return entities.ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("reactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}

// Archive deactivates an active row and tags it with a unique archive key.
func (r *UserRepository) Archive(ctx context.Context, id int64, archiveKey string, archivedAt time.Time) error {
	query := `
		UPDATE users
		SET is_active = FALSE, archive_key = $2, archived_at = $3
		WHERE id = $1 AND is_active
	`

	tag, err := r.db.Exec(ctx, query, id, archiveKey, archivedAt)
	if err != nil {
		return fmt.Errorf("archive user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrUserNotFound
	}

	return nil
}

// Deactivate marks the active row of a Telegram user inactive without archiving it.
func (r *UserRepository) Deactivate(ctx context.Context, telegramID int64) error {
	query := `UPDATE users SET is_active = FALSE WHERE telegram_id = $1 AND is_active`

	if _, err := r.db.Exec(ctx, query, telegramID); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Phone,
		&user.Name,
		&user.RegisteredAt,
		&user.IsActive,
		&user.ArchiveKey,
		&user.ArchivedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
