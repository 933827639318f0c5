package news

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bayside-club/backend/internal/models"
)

// ErrNotFound is returned when no article row matches.
var ErrNotFound = errors.New("article not found")

const articleColumns = `id, title, body, image_url, visible_to_groups, like_count,
	created_by, created_at, updated_at`

// Repository handles news article and like persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a news repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.ImageURL, &a.VisibleToGroups, &a.LikeCount,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an article.
func (r *Repository) Create(ctx context.Context, a *models.Article) error {
	const q = `INSERT INTO articles (title, body, image_url, visible_to_groups, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, like_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, a.Title, a.Body, a.ImageURL, a.VisibleToGroups, a.CreatedBy).
		Scan(&a.ID, &a.LikeCount, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID returns an article by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return scanArticle(r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id))
}

// List returns all articles, newest first. Visibility filtering is the
// handler's job, through the shared predicate.
func (r *Repository) List(ctx context.Context) ([]models.Article, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+articleColumns+` FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// Update replaces the editable fields of an article.
func (r *Repository) Update(ctx context.Context, a *models.Article) error {
	const q = `UPDATE articles SET title = $2, body = $3, image_url = $4,
		visible_to_groups = $5, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, a.ID, a.Title, a.Body, a.ImageURL, a.VisibleToGroups).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes an article and its likes as one transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM article_likes WHERE article_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// ToggleLike flips the caller's like membership inside one transaction:
// delete the row, insert when nothing was there, recount, persist the
// count. Toggling twice restores the original state and count.
func (r *Repository) ToggleLike(ctx context.Context, articleID, userID uuid.UUID) (*models.LikeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM article_likes WHERE article_id = $1 AND user_id = $2`, articleID, userID)
	if err != nil {
		return nil, err
	}
	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO article_likes (article_id, user_id) VALUES ($1, $2)`, articleID, userID); err != nil {
			return nil, err
		}
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM article_likes WHERE article_id = $1`, articleID).Scan(&count); err != nil {
		return nil, err
	}
	tag, err = tx.Exec(ctx, `UPDATE articles SET like_count = $2 WHERE id = $1`, articleID, count)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.LikeResult{Liked: liked, LikeCount: count}, nil
}
