// Package authz holds the club's access-control rules: role evaluation,
// group-scope visibility, and delegated group-admin management rights.
// Everything here is a pure predicate over a decoded session principal;
// no I/O happens in this package.
package authz

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is a closed set of platform roles.
type Role string

const (
	RoleMember     Role = "member"
	RoleGroupAdmin Role = "group_admin"
	RoleAdmin      Role = "admin"
)

// ParseRole validates a role string at the deserialization boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleMember, RoleGroupAdmin, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Principal is the authenticated identity for one request, derived fresh
// from the session token. A nil *Principal means anonymous.
type Principal struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Roles      []Role
	Groups     []uuid.UUID // groups the user belongs to as a member
	AdminFor   []uuid.UUID // groups a group_admin may manage content for
	SuperAdmin bool
}

// HasRole reports whether the principal holds the given role.
func (p *Principal) HasRole(r Role) bool {
	if p == nil {
		return false
	}
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// IsSelf reports whether the principal is the owner of a self-scoped
// resource (own profile, own RSVP, own like).
func (p *Principal) IsSelf(ownerID uuid.UUID) bool {
	return p != nil && p.UserID == ownerID
}

func intersects(a, b []uuid.UUID) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func subset(sub, super []uuid.UUID) bool {
	for _, x := range sub {
		found := false
		for _, y := range super {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
