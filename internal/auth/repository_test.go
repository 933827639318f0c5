package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/pkg/database"
)

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

func TestCreateDuplicateEmail(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	email := fmt.Sprintf("dup-%s@example.com", uuid.New())

	first, err := repo.Create(ctx, email, "hash", "First Member", "")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, first.ID)
	})

	// The same email again must surface as a duplicate, not a raw
	// constraint failure.
	if _, err := repo.Create(ctx, email, "hash", "Second Member", ""); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate create = %v, want ErrDuplicateEmail", err)
	}
	if _, err := repo.CreateExternal(ctx, uuid.New().String(), email, "External Member"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate external create = %v, want ErrDuplicateEmail", err)
	}
}
