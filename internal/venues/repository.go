package venues

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/database"
)

// Repository handles venue persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a venues repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all venues by id.
func (r *Repository) List(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM lieux_formation ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()
	var list []models.Venue
	for rows.Next() {
		var t models.Venue
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Create inserts a venue.
func (r *Repository) Create(ctx context.Context, name string) (*models.Venue, error) {
	t := models.Venue{Name: name}
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `INSERT INTO lieux_formation (name) VALUES ($1) RETURNING id, created_at`, name).
			Scan(&t.ID, &t.CreatedAt)
	})
	if err != nil {
		return nil, database.Translate(err, "insert venue")
	}
	return &t, nil
}

// Update renames a venue. Requests keep the old name.
func (r *Repository) Update(ctx context.Context, id int64, name string) error {
	return database.ExecOne(ctx, r.pool, "update venue",
		`UPDATE lieux_formation SET name = $2 WHERE id = $1`, id, name)
}

// Delete removes a venue. Nothing referencing it by name is touched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.ExecOne(ctx, r.pool, "delete venue",
		`DELETE FROM lieux_formation WHERE id = $1`, id)
}
