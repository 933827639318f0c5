package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sponsor is a club sponsor shown on the public site.
type Sponsor struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	LogoURL   string             `json:"logo_url" bson:"logo_url"`
	Website   string             `json:"website" bson:"website"`
	Blurb     string             `json:"blurb" bson:"blurb"`
	SortOrder int                `json:"sort_order" bson:"sort_order"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
