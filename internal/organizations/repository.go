package organizations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/database"
)

// Repository handles host organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all organizations ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Organization, error) {
	const q = `SELECT id, name, country, created_at FROM organismes ORDER BY name, id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()
	var list []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Country, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Create inserts an organization.
func (r *Repository) Create(ctx context.Context, name, country string) (*models.Organization, error) {
	const q = `INSERT INTO organismes (name, country) VALUES ($1, $2) RETURNING id, created_at`
	o := models.Organization{Name: name, Country: country}
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, name, country).Scan(&o.ID, &o.CreatedAt)
	})
	if err != nil {
		return nil, database.Translate(err, "insert organization")
	}
	return &o, nil
}

// Update replaces name and country of organization id.
func (r *Repository) Update(ctx context.Context, id int64, name, country string) error {
	return database.ExecOne(ctx, r.pool, "update organization",
		`UPDATE organismes SET name = $2, country = $3 WHERE id = $1`, id, name, country)
}

// Delete removes organization id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.ExecOne(ctx, r.pool, "delete organization",
		`DELETE FROM organismes WHERE id = $1`, id)
}

// NamesByCountry returns the distinct organization names in country, ascending.
func (r *Repository) NamesByCountry(ctx context.Context, country string) ([]string, error) {
	const q = `SELECT DISTINCT name FROM organismes WHERE country = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, q, country)
	if err != nil {
		return nil, fmt.Errorf("organizations by country: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan organization name: %w", err)
	}
	return names, nil
}
