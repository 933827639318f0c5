package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a club member account. Roles and group sets are the
// authoritative source for the claims baked into a session token;
// changes here only reach a token on re-login or refresh.
type User struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"-"`
	ExternalSubject *string     `json:"-"` // provider subject id for external sign-in accounts
	FullName        string      `json:"full_name"`
	Phone           string      `json:"phone"`
	Roles           []string    `json:"roles"`
	GroupIDs        []uuid.UUID `json:"group_ids"`
	AdminFor        []uuid.UUID `json:"admin_for"`
	SuperAdmin      bool        `json:"super_admin"`
	NotifyNews      bool        `json:"notify_news"`
	NotifyEvents    bool        `json:"notify_events"`
	NotifyChat      bool        `json:"notify_chat"`
	DeviceTokens    []string    `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID         uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	FullName   string      `json:"full_name"`
	Phone      string      `json:"phone"`
	Roles      []string    `json:"roles"`
	GroupIDs   []uuid.UUID `json:"group_ids"`
	AdminFor   []uuid.UUID `json:"admin_for"`
	SuperAdmin bool        `json:"super_admin"`
	CreatedAt  time.Time   `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Roles:      u.Roles,
		GroupIDs:   u.GroupIDs,
		AdminFor:   u.AdminFor,
		SuperAdmin: u.SuperAdmin,
		CreatedAt:  u.CreatedAt,
	}
}

// NotificationSettings is the user-editable notification preference set.
type NotificationSettings struct {
	NotifyNews   bool `json:"notify_news"`
	NotifyEvents bool `json:"notify_events"`
	NotifyChat   bool `json:"notify_chat"`
}
