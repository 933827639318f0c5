package models

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Album is a photo gallery album. Empty VisibleToGroups means public.
type Album struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	CoverPhotoURL   string             `json:"cover_photo_url,omitempty" bson:"cover_photo_url"`
	VisibleToGroups []string           `json:"visible_to_groups" bson:"visible_to_groups"`
	CreatedBy       string             `json:"created_by" bson:"created_by"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}

// GroupScope parses the stored group id strings.
func (a *Album) GroupScope() []uuid.UUID {
	return ParseGroupScope(a.VisibleToGroups)
}

// Photo belongs to an album; deleting the album removes its photos and
// their stored objects as one logical unit.
type Photo struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlbumID    primitive.ObjectID `json:"album_id" bson:"album_id"`
	URL        string             `json:"url" bson:"url"`
	Key        string             `json:"-" bson:"key"`
	Caption    string             `json:"caption" bson:"caption"`
	UploadedBy string             `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
