package trainingtypes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/database"
)

// Repository handles training type persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a training types repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all training types by id.
func (r *Repository) List(ctx context.Context) ([]models.TrainingType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM types_formation ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list training types: %w", err)
	}
	defer rows.Close()
	var list []models.TrainingType
	for rows.Next() {
		var t models.TrainingType
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan training type: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Create inserts a training type.
func (r *Repository) Create(ctx context.Context, name string) (*models.TrainingType, error) {
	t := models.TrainingType{Name: name}
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `INSERT INTO types_formation (name) VALUES ($1) RETURNING id, created_at`, name).
			Scan(&t.ID, &t.CreatedAt)
	})
	if err != nil {
		return nil, database.Translate(err, "insert training type")
	}
	return &t, nil
}

// Update renames a training type. Seminars and requests keep the old name.
func (r *Repository) Update(ctx context.Context, id int64, name string) error {
	return database.ExecOne(ctx, r.pool, "update training type",
		`UPDATE types_formation SET name = $2 WHERE id = $1`, id, name)
}

// Delete removes a training type. Nothing referencing it by name is touched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.ExecOne(ctx, r.pool, "delete training type",
		`DELETE FROM types_formation WHERE id = $1`, id)
}
