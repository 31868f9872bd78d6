package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/verben-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/verben-quiz-bot/internal/infra/postgres"
)

// VerbRepository provides access to the verb catalog in the database.
type VerbRepository struct {
	db postgres.DBTX
}

func NewVerbRepository(db postgres.DBTX) *VerbRepository {
	return &VerbRepository{db: db}
}

// Random returns up to n distinct verbs in random order.
func (r *VerbRepository) Random(ctx context.Context, n int) ([]entities.Verb, error) {
	query := `
		SELECT id, infinitive, praeteritum, partizip_ii, is_irregular
		FROM verbs
		ORDER BY random()
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("query random verbs: %w", err)
	}
	defer rows.Close()

	verbs := make([]entities.Verb, 0, n)
	for rows.Next() {
		var v entities.Verb
		if err := rows.Scan(&v.ID, &v.Infinitive, &v.Praeteritum, &v.PartizipII, &v.IsIrregular); err != nil {
			return nil, fmt.Errorf("scan verb: %w", err)
		}
		verbs = append(verbs, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verbs: %w", err)
	}

	return verbs, nil
}

// Count returns the number of verbs in the catalog.
func (r *VerbRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM verbs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count verbs: %w", err)
	}
	return n, nil
}

// Lock takes an exclusive lock on the verbs table until the transaction ends.
func (r *VerbRepository) Lock(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `LOCK TABLE verbs IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock verbs: %w", err)
	}
	return nil
}

// InsertAll bulk-loads verbs with COPY.
func (r *VerbRepository) InsertAll(ctx context.Context, verbs []entities.Verb) (int64, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"verbs"},
		[]string{"infinitive", "praeteritum", "partizip_ii", "is_irregular"},
		pgx.CopyFromSlice(len(verbs), func(i int) ([]any, error) {
			v := verbs[i]
			return []any{v.Infinitive, v.Praeteritum, v.PartizipII, v.IsIrregular}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy verbs: %w", err)
	}

	return n, nil
}
