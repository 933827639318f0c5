package events

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/models"
	"github.com/bayside-club/backend/pkg/database"
)

// testPool connects to the database named by TEST_DATABASE_URL and runs
// migrations; the test is skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	email := fmt.Sprintf("rsvp-%s@example.com", uuid.New())
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (email, full_name) VALUES ($1, $2) RETURNING id`,
		email, "Test Member").Scan(&id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

func createTestEvent(t *testing.T, pool *pgxpool.Pool, repo *Repository, createdBy uuid.UUID) *models.Event {
	t.Helper()
	e := &models.Event{
		Title:     "Spring Regatta",
		StartsAt:  time.Now().Add(72 * time.Hour),
		CreatedBy: createdBy,
	}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM events WHERE id = $1`, e.ID)
	})
	return e
}

func TestUpsertRSVPOverwrites(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	event := createTestEvent(t, pool, repo, userID)

	first := &models.RSVP{
		EventID:     event.ID,
		UserID:      userID,
		Status:      models.RSVPMaybe,
		Comment:     "depends on the weather",
		AdultGuests: 1,
	}
	if err := repo.UpsertRSVP(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &models.RSVP{
		EventID:     event.ID,
		UserID:      userID,
		Status:      models.RSVPYes,
		AdultGuests: 2,
		KidGuests:   3,
	}
	if err := repo.UpsertRSVP(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetRSVP(ctx, event.ID, userID)
	if err != nil {
		t.Fatalf("get rsvp: %v", err)
	}
	if got.Status != models.RSVPYes {
		t.Errorf("status = %q, want yes", got.Status)
	}
	if got.AdultGuests != 2 || got.KidGuests != 3 {
		t.Errorf("guests = %d/%d, want 2/3", got.AdultGuests, got.KidGuests)
	}
	if got.Comment != "" {
		t.Errorf("comment = %q, want overwritten to empty", got.Comment)
	}

	// Overwrite, never append: still exactly one row for the pair.
	var count int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM rsvps WHERE event_id = $1 AND user_id = $2`, event.ID, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count rsvps: %v", err)
	}
	if count != 1 {
		t.Errorf("rsvp rows = %d, want 1", count)
	}
}

func TestUpsertRSVPIdempotent(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	event := createTestEvent(t, pool, repo, userID)

	rsvp := &models.RSVP{EventID: event.ID, UserID: userID, Status: models.RSVPYes, AdultGuests: 1}
	if err := repo.UpsertRSVP(ctx, rsvp); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	createdAt := rsvp.CreatedAt

	// The identical answer again is a no-op apart from updated_at.
	again := &models.RSVP{EventID: event.ID, UserID: userID, Status: models.RSVPYes, AdultGuests: 1}
	if err := repo.UpsertRSVP(ctx, again); err != nil {
		t.Fatalf("repeat upsert: %v", err)
	}
	if !again.CreatedAt.Equal(createdAt) {
		t.Errorf("created_at changed on repeat: %v -> %v", createdAt, again.CreatedAt)
	}

	got, err := repo.GetRSVP(ctx, event.ID, userID)
	if err != nil {
		t.Fatalf("get rsvp: %v", err)
	}
	if got.Status != models.RSVPYes || got.AdultGuests != 1 {
		t.Errorf("rsvp drifted on repeat write: %+v", got)
	}

	tally, err := repo.TallyRSVPs(ctx, event.ID)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if tally.Yes != 1 || tally.No != 0 || tally.Maybe != 0 {
		t.Errorf("tally = %+v, want exactly one yes", tally)
	}
}

func TestGetRSVPNone(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	userID := createTestUser(t, pool)
	event := createTestEvent(t, pool, repo, userID)

	_, err := repo.GetRSVP(context.Background(), event.ID, userID)
	if !errors.Is(err, ErrNoRSVP) {
		t.Errorf("get without answer = %v, want ErrNoRSVP", err)
	}
}
