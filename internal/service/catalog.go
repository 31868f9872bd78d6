package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres"
	"github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres/repository"
)

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// CatalogWriter is the part of the verb storage used for seeding.
type CatalogWriter interface {
	Lock(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	InsertAll(ctx context.Context, verbs []entities.Verb) (int64, error)
}

// CatalogService seeds the verb table.
type CatalogService struct {
	tr      Transactor
	writers func(db postgres.DBTX) CatalogWriter
}

func NewCatalogService(tr Transactor) *CatalogService {
	return &CatalogService{
		tr: tr,
		writers: func(db postgres.DBTX) CatalogWriter {
			return repository.NewVerbRepository(db)
		},
	}
}

// Seed fills an empty verb table with the given catalog and returns the
// number of inserted verbs. A populated table is left untouched.
func (s *CatalogService) Seed(ctx context.Context, verbs []entities.Verb) (int64, error) {
	var inserted int64

	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		w := s.writers(tx)

		if err := w.Lock(ctx); err != nil {
			return err
		}

		n, err := w.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		inserted, err = w.InsertAll(ctx, verbs)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed verbs: %w", err)
	}

	return inserted, nil
}
