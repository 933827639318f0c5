package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category organizes library documents. Name is unique.
type Category struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Document is a library file. Group ids live as uuid strings in the
// document store; GroupScope parses them for the visibility predicate.
type Document struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	CategoryID      primitive.ObjectID `json:"category_id" bson:"category_id"`
	FileURL         string             `json:"file_url" bson:"file_url"`
	FileKey         string             `json:"-" bson:"file_key"`
	ContentType     string             `json:"content_type" bson:"content_type"`
	SizeBytes       int64              `json:"size_bytes" bson:"size_bytes"`
	VisibleToGroups []string           `json:"visible_to_groups" bson:"visible_to_groups"`
	CreatedBy       string             `json:"created_by" bson:"created_by"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}

// GroupScope parses the stored group id strings. Malformed entries are
// dropped rather than propagated into the visibility check.
func (d *Document) GroupScope() []uuid.UUID {
	return ParseGroupScope(d.VisibleToGroups)
}

// ParseGroupScope converts stored uuid strings into uuid values,
// skipping malformed entries.
func ParseGroupScope(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// GroupScopeStrings converts uuid values to the string form stored in
// the document store.
func GroupScopeStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
