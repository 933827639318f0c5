package auth

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
	// ErrUserNotFound is returned when no user row matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, email, password_hash, external_subject, full_name, phone,
	roles, group_ids, admin_for, super_admin,
	notify_news, notify_events, notify_chat, device_tokens, created_at, updated_at`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a user repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.ExternalSubject, &u.FullName, &u.Phone,
		&u.Roles, &u.GroupIDs, &u.AdminFor, &u.SuperAdmin,
		&u.NotifyNews, &u.NotifyEvents, &u.NotifyChat, &u.DeviceTokens, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new password account. The unique constraint on
// email decides duplicates, so two concurrent registrations cannot both
// win a pre-check.
func (r *Repository) Create(ctx context.Context, email, passwordHash, fullName, phone string) (*models.User, error) {
	const q = `INSERT INTO users (email, password_hash, full_name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, email, passwordHash, fullName, phone))
	if err != nil && isDuplicate(err) {
		return nil, ErrDuplicateEmail
	}
	return u, err
}

// CreateExternal inserts a user for a first external sign-in.
func (r *Repository) CreateExternal(ctx context.Context, subject, email, fullName string) (*models.User, error) {
	const q = `INSERT INTO users (email, external_subject, full_name)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, email, subject, fullName))
	if err != nil && isDuplicate(err) {
		return nil, ErrDuplicateEmail
	}
	return u, err
}

// GetByID returns a user by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail returns a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByExternalSubject returns a user by provider subject id.
func (r *Repository) GetByExternalSubject(ctx context.Context, subject string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE external_subject = $1`, subject))
}
