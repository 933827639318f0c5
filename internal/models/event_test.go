package models

import "testing"

func TestParseRSVPStatus(t *testing.T) {
	for _, valid := range []string{"yes", "no", "maybe"} {
		got, err := ParseRSVPStatus(valid)
		if err != nil {
			t.Errorf("ParseRSVPStatus(%q) error: %v", valid, err)
		}
		if string(got) != valid {
			t.Errorf("ParseRSVPStatus(%q) = %q", valid, got)
		}
	}
	for _, invalid := range []string{"", "YES", "attending", "y", "maybe "} {
		if _, err := ParseRSVPStatus(invalid); err == nil {
			t.Errorf("ParseRSVPStatus(%q) accepted invalid status", invalid)
		}
	}
}

func TestGroupScopeRoundTrip(t *testing.T) {
	d := &Document{VisibleToGroups: []string{
		"0c9d1f62-8f4e-4f6a-9a8f-0a1b2c3d4e5f",
		"not-a-uuid",
		"7b1e9d40-1111-4222-8333-944455566677",
	}}
	scope := d.GroupScope()
	if len(scope) != 2 {
		t.Fatalf("GroupScope dropped wrong count: got %d, want 2", len(scope))
	}
	back := GroupScopeStrings(scope)
	if back[0] != d.VisibleToGroups[0] || back[1] != d.VisibleToGroups[2] {
		t.Errorf("round trip mismatch: %v", back)
	}
}
