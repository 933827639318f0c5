package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bayside-club/backend/internal/models"
)

var (
	// ErrDuplicateName is returned when a group name is already taken.
	ErrDuplicateName = errors.New("group name already exists")
	// ErrNotFound is returned when no group row matches.
	ErrNotFound = errors.New("group not found")
)

const uniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Repository handles group persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a groups repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a group.
func (r *Repository) Create(ctx context.Context, name string) (*models.Group, error) {
	const q = `INSERT INTO groups (name) VALUES ($1)
		RETURNING id, name, created_at, updated_at`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, name).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &g, nil
}

// GetByID returns a group by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	const q = `SELECT id, name, created_at, updated_at FROM groups WHERE id = $1`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// List returns all groups ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Rename updates a group's name.
func (r *Repository) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Group, error) {
	const q = `UPDATE groups SET name = $2, updated_at = NOW() WHERE id = $1
		RETURNING id, name, created_at, updated_at`
	var g models.Group
	err := r.pool.QueryRow(ctx, q, id, name).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if isDuplicate(err) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return &g, nil
}

// Delete removes a group and scrubs its id from user membership and
// admin sets in the same transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	_, err = tx.Exec(ctx, `UPDATE users
		SET group_ids = array_remove(group_ids, $1),
		    admin_for = array_remove(admin_for, $1),
		    updated_at = NOW()
		WHERE $1 = ANY(group_ids) OR $1 = ANY(admin_for)`, id)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}
