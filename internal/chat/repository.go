package chat

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

// ErrNotFound is returned when no chat matches.
var ErrNotFound = errors.New("chat not found")

// DefaultHistoryLimit caps a history page when the client asks for none.
const DefaultHistoryLimit = 50

// Repository handles chat persistence in the document store. Messages
// are append-only; there is no edit or delete path.
type Repository struct {
	chats    *mongo.Collection
	messages *mongo.Collection
}

// NewRepository creates a chat repository.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		chats:    db.Collection("chats"),
		messages: db.Collection("chat_messages"),
	}
}

// Create inserts a chat room.
func (r *Repository) Create(ctx context.Context, chat *models.Chat) error {
	chat.CreatedAt = time.Now().UTC()
	res, err := r.chats.InsertOne(ctx, chat)
	if err != nil {
		return err
	}
	chat.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID returns a chat by id.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error) {
	var chat models.Chat
	err := r.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

// List returns all chats. Visibility filtering is the handler's job.
func (r *Repository) List(ctx context.Context) ([]models.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.chats.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var list []models.Chat
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes a chat room and its messages.
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.messages.DeleteMany(ctx, bson.M{"chat_id": id}); err != nil {
		return err
	}
	res, err := r.chats.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendMessage persists a message. Ordering is by CreatedAt, set here.
func (r *Repository) AppendMessage(ctx context.Context, m *models.ChatMessage) error {
	m.CreatedAt = time.Now().UTC()
	res, err := r.messages.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// History returns up to limit messages created before the given time,
// oldest first, so a client can page backwards through the log.
func (r *Repository) History(ctx context.Context, chatID primitive.ObjectID, before time.Time, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = DefaultHistoryLimit
	}
	filter := bson.M{"chat_id": chatID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	// Newest-first with a limit picks the page; the slice is then
	// reversed so callers always see ascending order.
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var page []models.ChatMessage
	if err := cur.All(ctx, &page); err != nil {
		return nil, err
	}
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}
