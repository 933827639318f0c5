package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is a news post. Empty VisibleToGroups means public. LikeCount
// always equals the number of rows in article_likes for this article;
// the only mutation is the like toggle.
type Article struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Body            string      `json:"body"`
	ImageURL        string      `json:"image_url,omitempty"`
	VisibleToGroups []uuid.UUID `json:"visible_to_groups"`
	LikeCount       int         `json:"like_count"`
	CreatedBy       uuid.UUID   `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
