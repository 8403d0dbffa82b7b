package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/apperr"
	"github.com/seminaires/backend/pkg/database"
)

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByUsername returns a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	var u models.User
	err := r.pool.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List returns all users by id.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, username, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create inserts a user. A taken username yields apperr.ErrConflict.
func (r *Repository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	const q = `INSERT INTO users (username, password_hash) VALUES ($1, $2)
		RETURNING id, username, created_at`
	var u models.User
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, username, passwordHash).Scan(&u.ID, &u.Username, &u.CreatedAt)
	})
	if err != nil {
		return nil, database.Translate(err, "insert user")
	}
	return &u, nil
}

// Delete removes a user by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.ExecOne(ctx, r.pool, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// EnsureUser creates username when it does not exist yet. It reports whether a row was inserted.
func (r *Repository) EnsureUser(ctx context.Context, username, passwordHash string) (bool, error) {
	const q = `INSERT INTO users (username, password_hash) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, username, passwordHash)
	if err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
