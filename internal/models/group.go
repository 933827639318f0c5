package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a club group (squad, section, committee). Name is unique.
type Group struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
