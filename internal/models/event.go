package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is a club event. Empty VisibleToGroups means public.
type Event struct {
	ID              uuid.UUID   `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Location        string      `json:"location"`
	StartsAt        time.Time   `json:"starts_at"`
	EndsAt          *time.Time  `json:"ends_at,omitempty"`
	VisibleToGroups []uuid.UUID `json:"visible_to_groups"`
	CreatedBy       uuid.UUID   `json:"created_by"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// RSVPStatus is the closed set of RSVP answers.
type RSVPStatus string

const (
	RSVPYes   RSVPStatus = "yes"
	RSVPNo    RSVPStatus = "no"
	RSVPMaybe RSVPStatus = "maybe"
)

// ParseRSVPStatus validates a status string; anything outside the enum
// is a validation error, never silently coerced.
func ParseRSVPStatus(s string) (RSVPStatus, error) {
	switch RSVPStatus(s) {
	case RSVPYes, RSVPNo, RSVPMaybe:
		return RSVPStatus(s), nil
	default:
		return "", fmt.Errorf("invalid rsvp status %q (want yes, no or maybe)", s)
	}
}

// RSVP is a member's single current answer for an event. At most one row
// exists per (event, user); writes overwrite.
type RSVP struct {
	EventID     uuid.UUID  `json:"event_id"`
	UserID      uuid.UUID  `json:"user_id"`
	UserName    string     `json:"user_name,omitempty"`
	Status      RSVPStatus `json:"status"`
	Comment     string     `json:"comment"`
	AdultGuests int        `json:"adult_guests"`
	KidGuests   int        `json:"kid_guests"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RSVPTally is the aggregate answer count for an event.
type RSVPTally struct {
	Yes   int `json:"yes"`
	No    int `json:"no"`
	Maybe int `json:"maybe"`
}
