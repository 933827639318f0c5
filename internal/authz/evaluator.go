package authz

import "github.com/google/uuid"

// Action classifies what a caller is trying to do. Scoped-resource
// creation additionally needs the target scope; see CanCreateScoped.
type Action string

const (
	ActionCreatePublicResource Action = "create_public_resource"
	ActionCreateScopedResource Action = "create_scoped_resource"
	ActionManageUsers          Action = "manage_users"
	ActionManageGroups         Action = "manage_groups"
	ActionManageRoles          Action = "manage_roles" // appointing group admins; super-admin only
	ActionDeleteAnyResource    Action = "delete_any_resource"
	ActionReadOwnProfile       Action = "read_own_profile"
)

// CanPerform decides ALLOW/DENY for an action class. Rules are evaluated
// top-down, first match wins. DENY is a normal outcome (the handler
// answers 403), never an error.
func CanPerform(p *Principal, action Action) bool {
	if p == nil {
		return false
	}
	if p.SuperAdmin {
		return true
	}
	if p.HasRole(RoleAdmin) {
		// Admins get every management action except those reserved for
		// the super-admin (appointing group admins).
		return action != ActionManageRoles
	}
	switch action {
	case ActionReadOwnProfile:
		return true
	case ActionCreateScopedResource:
		// Needs the target scope; callers with a concrete scope must use
		// CanCreateScoped. Without one, only the roles above qualify.
		return false
	}
	return false
}

// CanCreateScoped decides whether the principal may create a resource
// with the given visibility scope. Group admins may create only
// non-public resources whose every target group is under their
// administration.
func CanCreateScoped(p *Principal, scope []uuid.UUID) bool {
	if p == nil {
		return false
	}
	if p.SuperAdmin || p.HasRole(RoleAdmin) {
		return true
	}
	if !p.HasRole(RoleGroupAdmin) {
		return false
	}
	if len(scope) == 0 {
		// A public resource; group admins cannot create those.
		return false
	}
	return subset(scope, p.AdminFor)
}
