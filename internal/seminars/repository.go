package seminars

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/database"
)

// Repository handles seminar persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a seminars repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all seminars by id.
func (r *Repository) List(ctx context.Context) ([]models.Seminar, error) {
	const q = `SELECT id, reference, theme, type_formation, created_at FROM seminaires ORDER BY id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list seminars: %w", err)
	}
	defer rows.Close()
	var list []models.Seminar
	for rows.Next() {
		var s models.Seminar
		if err := rows.Scan(&s.ID, &s.Reference, &s.Theme, &s.TrainingType, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan seminar: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Create inserts a seminar. The training type is stored by name.
func (r *Repository) Create(ctx context.Context, s *models.Seminar) error {
	const q = `INSERT INTO seminaires (reference, theme, type_formation)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, s.Reference, s.Theme, s.TrainingType).Scan(&s.ID, &s.CreatedAt)
	})
	return database.Translate(err, "insert seminar")
}

// Update replaces every field of seminar s.ID.
func (r *Repository) Update(ctx context.Context, s *models.Seminar) error {
	return database.ExecOne(ctx, r.pool, "update seminar",
		`UPDATE seminaires SET reference = $2, theme = $3, type_formation = $4 WHERE id = $1`,
		s.ID, s.Reference, s.Theme, s.TrainingType)
}

// Delete removes seminar id. Requests carrying its reference are untouched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.ExecOne(ctx, r.pool, "delete seminar",
		`DELETE FROM seminaires WHERE id = $1`, id)
}

// ReferencesByType returns the distinct references of seminars of the given
// training type, ascending.
func (r *Repository) ReferencesByType(ctx context.Context, trainingType string) ([]string, error) {
	return r.distinct(ctx, "references by type",
		`SELECT DISTINCT reference FROM seminaires WHERE type_formation = $1 ORDER BY reference`, trainingType)
}

// ThemesByReference returns the distinct themes recorded for reference, ascending.
func (r *Repository) ThemesByReference(ctx context.Context, reference string) ([]string, error) {
	return r.distinct(ctx, "themes by reference",
		`SELECT DISTINCT theme FROM seminaires WHERE reference = $1 ORDER BY theme`, reference)
}

func (r *Repository) distinct(ctx context.Context, op, q string, arg string) ([]string, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return values, nil
}
