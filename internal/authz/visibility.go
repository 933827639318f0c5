package authz

import "github.com/google/uuid"

// IsVisible is the single shared visibility predicate for every
// group-scoped resource (events, news, documents, albums, chats).
// An empty scope means public: visible to everyone, anonymous included.
// Admins and the super-admin see every scope; anyone who may delete a
// resource must also be able to read it.
func IsVisible(p *Principal, visibleToGroups []uuid.UUID) bool {
	if len(visibleToGroups) == 0 {
		return true
	}
	if p == nil {
		return false
	}
	if p.SuperAdmin || p.HasRole(RoleAdmin) {
		return true
	}
	return intersects(p.Groups, visibleToGroups)
}

// CanManageScoped decides per-instance management rights (edit/delete)
// over a group-scoped resource. Group admins can manage a resource only
// when its scope is non-empty and intersects the groups they administer;
// a fully public resource is manageable by the super-admin alone.
func CanManageScoped(p *Principal, visibleToGroups []uuid.UUID) bool {
	if p == nil {
		return false
	}
	if p.SuperAdmin {
		return true
	}
	if !p.HasRole(RoleGroupAdmin) {
		return false
	}
	if len(visibleToGroups) == 0 {
		return false
	}
	return intersects(p.AdminFor, visibleToGroups)
}
