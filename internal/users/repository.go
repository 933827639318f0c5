package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bayside-club/backend/internal/models"
)

// ErrNotFound is returned when no user row matches.
var ErrNotFound = errors.New("user not found")

const userColumns = `id, email, password_hash, external_subject, full_name, phone,
	roles, group_ids, admin_for, super_admin,
	notify_news, notify_events, notify_chat, device_tokens, created_at, updated_at`

// Repository handles user management persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
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
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// List returns all users ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.UserPublic, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u.ToPublic())
	}
	return list, rows.Err()
}

// UpdateProfile updates the self-editable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) (*models.User, error) {
	const q = `UPDATE users SET full_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, id, fullName, phone))
}

// UpdateNotificationSettings stores the user's notification preferences.
func (r *Repository) UpdateNotificationSettings(ctx context.Context, id uuid.UUID, s models.NotificationSettings) error {
	const q = `UPDATE users SET notify_news = $2, notify_events = $3, notify_chat = $4, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, s.NotifyNews, s.NotifyEvents, s.NotifyChat)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDeviceToken registers a push device token, once.
func (r *Repository) AddDeviceToken(ctx context.Context, id uuid.UUID, token string) error {
	const q = `UPDATE users SET device_tokens = array_append(device_tokens, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(device_tokens))`
	_, err := r.pool.Exec(ctx, q, id, token)
	return err
}

// UpdateRolesAndGroups replaces a user's role set and group memberships.
// The caller is responsible for authorization (admin, with group-admin
// appointments reserved for the super-admin).
func (r *Repository) UpdateRolesAndGroups(ctx context.Context, id uuid.UUID, roles []string, groupIDs, adminFor []uuid.UUID) (*models.User, error) {
	const q = `UPDATE users SET roles = $2, group_ids = $3, admin_for = $4, updated_at = NOW()
		WHERE id = $1 RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, id, roles, groupIDs, adminFor))
}

// Delete removes a user account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeviceTokensForGroups returns the device tokens of users who opted in
// to the given notification kind and belong to any of the groups (or of
// all opted-in users when groups is empty, for public announcements).
func (r *Repository) DeviceTokensForGroups(ctx context.Context, settingColumn string, groupIDs []uuid.UUID) ([]string, error) {
	var q string
	var args []any
	switch settingColumn {
	case "notify_news", "notify_events", "notify_chat":
	default:
		return nil, errors.New("unknown notification setting")
	}
	if len(groupIDs) == 0 {
		q = `SELECT unnest(device_tokens) FROM users WHERE ` + settingColumn + ` AND cardinality(device_tokens) > 0`
	} else {
		q = `SELECT unnest(device_tokens) FROM users WHERE ` + settingColumn + ` AND group_ids && $1 AND cardinality(device_tokens) > 0`
		args = append(args, groupIDs)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
