package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is a group-scoped chat room. Empty GroupIDs means a club-wide
// chat open to every member.
type Chat struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	GroupIDs  []string           `json:"group_ids" bson:"group_ids"`
	CreatedBy string             `json:"created_by" bson:"created_by"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// GroupScope parses the stored group id strings.
func (c *Chat) GroupScope() []uuid.UUID {
	return ParseGroupScope(c.GroupIDs)
}

// ChatMessage is append-only; history replays ordered by CreatedAt ascending.
type ChatMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChatID    primitive.ObjectID `json:"chat_id" bson:"chat_id"`
	UserID    string             `json:"user_id" bson:"user_id"`
	UserName  string             `json:"user_name" bson:"user_name"`
	Body      string             `json:"body" bson:"body"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
