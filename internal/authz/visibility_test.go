package authz

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsVisible_EmptyScopeIsPublic(t *testing.T) {
	principals := []*Principal{nil, member(), member(groupSwim), groupAdmin(groupJuniors), admin(), superAdmin()}
	for _, p := range principals {
		if !IsVisible(p, nil) {
			t.Errorf("empty scope must be visible to every principal, got false for %+v", p)
		}
		if !IsVisible(p, []uuid.UUID{}) {
			t.Errorf("empty (non-nil) scope must be visible to every principal")
		}
	}
}

func TestIsVisible_AnonymousExcludedFromScoped(t *testing.T) {
	if IsVisible(nil, []uuid.UUID{groupSwim}) {
		t.Error("anonymous saw a group-scoped resource")
	}
}

func TestIsVisible_MembershipIntersection(t *testing.T) {
	tests := []struct {
		name  string
		p     *Principal
		scope []uuid.UUID
		want  bool
	}{
		{"member in scope", member(groupSwim), []uuid.UUID{groupSwim}, true},
		{"member in one of several", member(groupJuniors), []uuid.UUID{groupSwim, groupJuniors}, true},
		{"member outside scope", member(groupMasters), []uuid.UUID{groupSwim}, false},
		{"member with no groups", member(), []uuid.UUID{groupSwim}, false},
		{"admin bypass", admin(), []uuid.UUID{groupSwim}, true},
		{"super-admin bypass", superAdmin(), []uuid.UUID{groupSwim}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.p, tt.scope); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Mirrors the event listing scenario: an anonymous viewer of three events
// (public, swim-scoped, juniors-scoped) sees only the public one.
func TestIsVisible_AnonymousListFiltering(t *testing.T) {
	scopes := [][]uuid.UUID{nil, {groupSwim}, {groupJuniors}}
	var visible int
	for _, s := range scopes {
		if IsVisible(nil, s) {
			visible++
		}
	}
	if visible != 1 {
		t.Errorf("anonymous sees %d of 3 events, want 1", visible)
	}
}

// A principal allowed to manage a resource must also be able to read
// it; an admin must never get not-found on something it could delete.
func TestManageImpliesVisible(t *testing.T) {
	principals := map[string]*Principal{
		"member":      member(groupSwim),
		"group admin": groupAdmin(groupSwim),
		"admin":       admin(),
		"super-admin": superAdmin(),
	}
	scopes := [][]uuid.UUID{nil, {groupSwim}, {groupJuniors}, {groupSwim, groupMasters}}
	for name, p := range principals {
		for _, scope := range scopes {
			manages := CanPerform(p, ActionDeleteAnyResource) || CanManageScoped(p, scope)
			if manages && !IsVisible(p, scope) {
				t.Errorf("%s can manage scope %v but cannot see it", name, scope)
			}
		}
	}
}

func TestCanManageScoped(t *testing.T) {
	tests := []struct {
		name  string
		p     *Principal
		scope []uuid.UUID
		want  bool
	}{
		{"super-admin manages public", superAdmin(), nil, true},
		{"super-admin manages scoped", superAdmin(), []uuid.UUID{groupSwim}, true},
		{"group admin within scope", groupAdmin(groupSwim), []uuid.UUID{groupSwim}, true},
		{"group admin non-empty intersection", groupAdmin(groupSwim), []uuid.UUID{groupSwim, groupJuniors}, true},
		{"group admin disjoint scope", groupAdmin(groupSwim), []uuid.UUID{groupJuniors}, false},
		{"group admin cannot manage public", groupAdmin(groupSwim), nil, false},
		{"plain admin not delegated", admin(), []uuid.UUID{groupSwim}, false},
		{"member denied", member(groupSwim), []uuid.UUID{groupSwim}, false},
		{"anonymous denied", nil, []uuid.UUID{groupSwim}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageScoped(tt.p, tt.scope); got != tt.want {
				t.Errorf("CanManageScoped() = %v, want %v", got, tt.want)
			}
		})
	}
}
