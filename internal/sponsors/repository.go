package sponsors

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

// ErrNotFound is returned when no sponsor matches.
var ErrNotFound = errors.New("sponsor not found")

// Repository handles sponsor persistence in the document store.
type Repository struct {
	sponsors *mongo.Collection
}

// NewRepository creates a sponsors repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{sponsors: db.Collection("sponsors")}
}

// Create inserts a sponsor.
func (r *Repository) Create(ctx context.Context, s *models.Sponsor) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	res, err := r.sponsors.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	s.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID returns a sponsor by id.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Sponsor, error) {
	var s models.Sponsor
	err := r.sponsors.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all sponsors in display order.
func (r *Repository) List(ctx context.Context) ([]models.Sponsor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.sponsors.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Sponsor
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update saves sponsor fields.
func (r *Repository) Update(ctx context.Context, s *models.Sponsor) error {
	s.UpdatedAt = time.Now().UTC()
	res, err := r.sponsors.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": bson.M{
		"name":       s.Name,
		"logo_url":   s.LogoURL,
		"website":    s.Website,
		"blurb":      s.Blurb,
		"sort_order": s.SortOrder,
		"updated_at": s.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a sponsor.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.sponsors.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
