package news

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bayside-club/backend/internal/models"
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

func createTestUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	email := fmt.Sprintf("like-%s@example.com", uuid.New())
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

func createTestArticle(t *testing.T, pool *pgxpool.Pool, repo *Repository, createdBy uuid.UUID) *models.Article {
	t.Helper()
	a := &models.Article{Title: "Clubhouse reopening", Body: "Doors open Saturday.", CreatedBy: createdBy}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("create article: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM articles WHERE id = $1`, a.ID)
	})
	return a
}

func TestToggleLikeInvolution(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	userID := createTestUser(t, pool)
	article := createTestArticle(t, pool, repo, userID)

	first, err := repo.ToggleLike(ctx, article.ID, userID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Liked || first.LikeCount != 1 {
		t.Errorf("first toggle = %+v, want liked with count 1", first)
	}

	second, err := repo.ToggleLike(ctx, article.ID, userID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Liked || second.LikeCount != 0 {
		t.Errorf("second toggle = %+v, want unliked with count 0", second)
	}

	// Toggling twice restores the stored counter too.
	got, err := repo.GetByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if got.LikeCount != 0 {
		t.Errorf("stored like_count = %d, want 0", got.LikeCount)
	}
}

func TestToggleLikeCountsPerUser(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()
	alice := createTestUser(t, pool)
	bob := createTestUser(t, pool)
	article := createTestArticle(t, pool, repo, alice)

	if _, err := repo.ToggleLike(ctx, article.ID, alice); err != nil {
		t.Fatalf("alice toggle: %v", err)
	}
	res, err := repo.ToggleLike(ctx, article.ID, bob)
	if err != nil {
		t.Fatalf("bob toggle: %v", err)
	}
	if !res.Liked || res.LikeCount != 2 {
		t.Errorf("after both like = %+v, want liked with count 2", res)
	}

	// One user withdrawing leaves the other's like in place.
	res, err = repo.ToggleLike(ctx, article.ID, alice)
	if err != nil {
		t.Fatalf("alice unlike: %v", err)
	}
	if res.Liked || res.LikeCount != 1 {
		t.Errorf("after withdraw = %+v, want unliked with count 1", res)
	}
}
