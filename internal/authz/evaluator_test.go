package authz

import (
	"testing"

	"github.com/google/uuid"
)

var (
	groupSwim    = uuid.New()
	groupJuniors = uuid.New()
	groupMasters = uuid.New()
)

func member(groups ...uuid.UUID) *Principal {
	return &Principal{UserID: uuid.New(), Roles: []Role{RoleMember}, Groups: groups}
}

func groupAdmin(adminFor ...uuid.UUID) *Principal {
	return &Principal{UserID: uuid.New(), Roles: []Role{RoleMember, RoleGroupAdmin}, AdminFor: adminFor}
}

func admin() *Principal {
	return &Principal{UserID: uuid.New(), Roles: []Role{RoleAdmin}}
}

func superAdmin() *Principal {
	return &Principal{UserID: uuid.New(), Roles: []Role{RoleAdmin}, SuperAdmin: true}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"member", "group_admin", "admin"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Admin", "superadmin", "root"} {
		if _, err := ParseRole(invalid); err == nil {
			t.Errorf("ParseRole(%q) expected error, got nil", invalid)
		}
	}
}

func TestCanPerform_SuperAdminAllowsEverything(t *testing.T) {
	p := superAdmin()
	actions := []Action{
		ActionCreatePublicResource, ActionCreateScopedResource,
		ActionManageUsers, ActionManageGroups, ActionManageRoles,
		ActionDeleteAnyResource, ActionReadOwnProfile,
	}
	for _, a := range actions {
		if !CanPerform(p, a) {
			t.Errorf("super-admin denied %s", a)
		}
	}
}

func TestCanPerform_AdminAllExceptReserved(t *testing.T) {
	p := admin()
	for _, a := range []Action{ActionCreatePublicResource, ActionManageUsers, ActionManageGroups, ActionDeleteAnyResource} {
		if !CanPerform(p, a) {
			t.Errorf("admin denied %s", a)
		}
	}
	if CanPerform(p, ActionManageRoles) {
		t.Error("admin allowed manage_roles; appointing group admins is super-admin only")
	}
}

func TestCanPerform_MemberAndAnonymous(t *testing.T) {
	m := member(groupSwim)
	if !CanPerform(m, ActionReadOwnProfile) {
		t.Error("authenticated member denied read_own_profile")
	}
	for _, a := range []Action{ActionCreatePublicResource, ActionManageUsers, ActionManageGroups, ActionDeleteAnyResource} {
		if CanPerform(m, a) {
			t.Errorf("member allowed %s", a)
		}
	}
	if CanPerform(nil, ActionReadOwnProfile) {
		t.Error("anonymous allowed read_own_profile")
	}
}

func TestCanCreateScoped(t *testing.T) {
	tests := []struct {
		name  string
		p     *Principal
		scope []uuid.UUID
		want  bool
	}{
		{"super-admin public", superAdmin(), nil, true},
		{"admin scoped", admin(), []uuid.UUID{groupSwim}, true},
		{"group admin within admin_for", groupAdmin(groupSwim, groupJuniors), []uuid.UUID{groupSwim}, true},
		{"group admin full admin_for", groupAdmin(groupSwim, groupJuniors), []uuid.UUID{groupSwim, groupJuniors}, true},
		{"group admin outside admin_for", groupAdmin(groupSwim), []uuid.UUID{groupJuniors}, false},
		{"group admin partially outside", groupAdmin(groupSwim), []uuid.UUID{groupSwim, groupMasters}, false},
		{"group admin public denied", groupAdmin(groupSwim), nil, false},
		{"member denied", member(groupSwim), []uuid.UUID{groupSwim}, false},
		{"anonymous denied", nil, []uuid.UUID{groupSwim}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreateScoped(tt.p, tt.scope); got != tt.want {
				t.Errorf("CanCreateScoped() = %v, want %v", got, tt.want)
			}
		})
	}
}
