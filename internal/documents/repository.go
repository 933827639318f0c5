package documents

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bayside-club/backend/internal/models"
)

var (
	// ErrDuplicateCategory is returned when a category name is taken.
	ErrDuplicateCategory = errors.New("category name already exists")
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrCategoryNotFound is returned when no category matches.
	ErrCategoryNotFound = errors.New("category not found")
)

// Repository handles document library persistence in the document store.
type Repository struct {
	categories *mongo.Collection
	documents  *mongo.Collection
}

// NewRepository creates a documents repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		categories: db.Collection("document_categories"),
		documents:  db.Collection("documents"),
	}
}

// CreateCategory inserts a category; the unique index on name turns
// duplicates into ErrDuplicateCategory.
func (r *Repository) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	cat := &models.Category{Name: name, CreatedAt: time.Now().UTC()}
	res, err := r.categories.InsertOne(ctx, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	cat.ID = res.InsertedID.(primitive.ObjectID)
	return cat, nil
}

// ListCategories returns all categories sorted by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	cur, err := r.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Category
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteCategory removes a category; fails while documents still use it.
func (r *Repository) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.documents.CountDocuments(ctx, bson.M{"category_id": id})
	if err != nil {
		return err
	}
	if n > 0 {
		return errors.New("category still has documents")
	}
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Create inserts a document record.
func (r *Repository) Create(ctx context.Context, d *models.Document) error {
	n, err := r.categories.CountDocuments(ctx, bson.M{"_id": d.CategoryID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	d.CreatedAt = time.Now().UTC()
	res, err := r.documents.InsertOne(ctx, d)
	if err != nil {
		return err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID returns a document by id.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	var d models.Document
	err := r.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns documents, optionally restricted to one category.
// Visibility filtering is the handler's job, through the shared predicate.
func (r *Repository) List(ctx context.Context, categoryID *primitive.ObjectID) ([]models.Document, error) {
	filter := bson.M{}
	if categoryID != nil {
		filter["category_id"] = *categoryID
	}
	cur, err := r.documents.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Document
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes a document record.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.documents.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
