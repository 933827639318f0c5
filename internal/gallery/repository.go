package gallery

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

// ErrNotFound is returned when no album or photo matches.
var ErrNotFound = errors.New("not found")

// Repository handles gallery persistence in the document store.
type Repository struct {
	albums *mongo.Collection
	photos *mongo.Collection
}

// NewRepository creates a gallery repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		albums: db.Collection("albums"),
		photos: db.Collection("photos"),
	}
}

// CreateAlbum inserts an album.
func (r *Repository) CreateAlbum(ctx context.Context, a *models.Album) error {
	a.CreatedAt = time.Now().UTC()
	res, err := r.albums.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetAlbum returns an album by id.
func (r *Repository) GetAlbum(ctx context.Context, id primitive.ObjectID) (*models.Album, error) {
	var a models.Album
	err := r.albums.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListAlbums returns all albums, newest first. Visibility filtering is
// the handler's job.
func (r *Repository) ListAlbums(ctx context.Context) ([]models.Album, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.albums.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Album
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateAlbum saves album metadata.
func (r *Repository) UpdateAlbum(ctx context.Context, a *models.Album) error {
	res, err := r.albums.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{
		"title":             a.Title,
		"description":       a.Description,
		"cover_photo_url":   a.CoverPhotoURL,
		"visible_to_groups": a.VisibleToGroups,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAlbum removes an album and all of its photo records, returning
// the removed photos so the caller can clean up stored objects.
// The two deletes are sequential, not transactional (the store may run
// standalone, without sessions): a failure between them leaves an
// emptied album behind, the error is surfaced, and re-deleting the
// album finishes the job.
func (r *Repository) DeleteAlbum(ctx context.Context, id primitive.ObjectID) ([]models.Photo, error) {
	photos, err := r.ListPhotos(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.photos.DeleteMany(ctx, bson.M{"album_id": id}); err != nil {
		return nil, err
	}
	res, err := r.albums.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if res.DeletedCount == 0 {
		return nil, ErrNotFound
	}
	return photos, nil
}

// AddPhoto inserts a photo record into an album.
func (r *Repository) AddPhoto(ctx context.Context, p *models.Photo) error {
	p.CreatedAt = time.Now().UTC()
	res, err := r.photos.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetPhoto returns a photo by id.
func (r *Repository) GetPhoto(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	var p models.Photo
	err := r.photos.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPhotos returns an album's photos in upload order.
func (r *Repository) ListPhotos(ctx context.Context, albumID primitive.ObjectID) ([]models.Photo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.photos.Find(ctx, bson.M{"album_id": albumID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Photo
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeletePhoto removes a photo record.
func (r *Repository) DeletePhoto(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.photos.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
