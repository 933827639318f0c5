package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bayside-club/backend/internal/models"
)

var (
	// ErrNotFound is returned when no event row matches.
	ErrNotFound = errors.New("event not found")
	// ErrNoRSVP is returned when the user has not answered yet.
	ErrNoRSVP = errors.New("no rsvp for event")
)

const eventColumns = `id, title, description, location, starts_at, ends_at,
	visible_to_groups, created_by, created_at, updated_at`

// Repository handles event and RSVP persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.StartsAt, &e.EndsAt,
		&e.VisibleToGroups, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Create inserts an event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (title, description, location, starts_at, ends_at, visible_to_groups, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.VisibleToGroups, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// List returns all events ordered by start time. Visibility filtering is
// the handler's job, through the shared predicate.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Update replaces the editable fields of an event.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $2, description = $3, location = $4,
		starts_at = $5, ends_at = $6, visible_to_groups = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, e.ID, e.Title, e.Description, e.Location, e.StartsAt, e.EndsAt, e.VisibleToGroups).
		Scan(&e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes an event and its RSVPs as one transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rsvps WHERE event_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// UpsertRSVP writes the member's single current answer for an event.
// The conflict target (event_id, user_id) makes a second call overwrite
// rather than append; serializability per pair comes from the store,
// not application locking.
func (r *Repository) UpsertRSVP(ctx context.Context, rsvp *models.RSVP) error {
	const q = `INSERT INTO rsvps (event_id, user_id, status, comment, adult_guests, kid_guests)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id, user_id) DO UPDATE SET
			status = EXCLUDED.status,
			comment = EXCLUDED.comment,
			adult_guests = EXCLUDED.adult_guests,
			kid_guests = EXCLUDED.kid_guests,
			updated_at = NOW()
		RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, q, rsvp.EventID, rsvp.UserID, rsvp.Status, rsvp.Comment, rsvp.AdultGuests, rsvp.KidGuests).
		Scan(&rsvp.CreatedAt, &rsvp.UpdatedAt)
}

// GetRSVP returns the caller's RSVP for an event, if any.
func (r *Repository) GetRSVP(ctx context.Context, eventID, userID uuid.UUID) (*models.RSVP, error) {
	const q = `SELECT event_id, user_id, status, comment, adult_guests, kid_guests, created_at, updated_at
		FROM rsvps WHERE event_id = $1 AND user_id = $2`
	var v models.RSVP
	err := r.pool.QueryRow(ctx, q, eventID, userID).
		Scan(&v.EventID, &v.UserID, &v.Status, &v.Comment, &v.AdultGuests, &v.KidGuests, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRSVP
		}
		return nil, err
	}
	return &v, nil
}

// ListRSVPs returns the full RSVP detail for an event, with member names.
func (r *Repository) ListRSVPs(ctx context.Context, eventID uuid.UUID) ([]models.RSVP, error) {
	const q = `SELECT r.event_id, r.user_id, u.full_name, r.status, r.comment,
			r.adult_guests, r.kid_guests, r.created_at, r.updated_at
		FROM rsvps r JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 ORDER BY u.full_name`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.RSVP
	for rows.Next() {
		var v models.RSVP
		if err := rows.Scan(&v.EventID, &v.UserID, &v.UserName, &v.Status, &v.Comment,
			&v.AdultGuests, &v.KidGuests, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// TallyRSVPs returns the aggregate yes/no/maybe counts for an event.
func (r *Repository) TallyRSVPs(ctx context.Context, eventID uuid.UUID) (*models.RSVPTally, error) {
	const q = `SELECT
			COUNT(*) FILTER (WHERE status = 'yes'),
			COUNT(*) FILTER (WHERE status = 'no'),
			COUNT(*) FILTER (WHERE status = 'maybe')
		FROM rsvps WHERE event_id = $1`
	var t models.RSVPTally
	if err := r.pool.QueryRow(ctx, q, eventID).Scan(&t.Yes, &t.No, &t.Maybe); err != nil {
		return nil, err
	}
	return &t, nil
}
