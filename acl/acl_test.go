package acl

import "testing"

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name      string
		global    string
		inACL     Role
		required  Role
		allow     bool
	}{
		{name: "reader reads", global: "user", inACL: RoleReader, required: RoleReader, allow: true},
		{name: "reader cannot write", global: "user", inACL: RoleReader, required: RoleWriter, allow: false},
		{name: "writer writes", global: "user", inACL: RoleWriter, required: RoleWriter, allow: true},
		{name: "writer cannot admin", global: "user", inACL: RoleWriter, required: RoleAdmin, allow: false},
		{name: "admin writes", global: "user", inACL: RoleAdmin, required: RoleWriter, allow: true},
		{name: "admin admins", global: "user", inACL: RoleAdmin, required: RoleAdmin, allow: true},
		{name: "absent from acl", global: "user", inACL: "", required: RoleReader, allow: false},
		{name: "unknown role in acl", global: "user", inACL: Role("owner"), required: RoleReader, allow: false},
		{name: "global admin without acl entry", global: GlobalAdmin, inACL: "", required: RoleAdmin, allow: true},
		{name: "global admin overrides reader entry", global: GlobalAdmin, inACL: RoleReader, required: RoleAdmin, allow: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.global, tc.inACL, tc.required); got != tc.allow {
				t.Fatalf("Authorize(%q, %q, %q) = %v, want %v", tc.global, tc.inACL, tc.required, got, tc.allow)
			}
		})
	}
}

func TestParse(t *testing.T) {
	for _, valid := range []string{"admin", "writer", "reader"} {
		if _, err := Parse(valid); err != nil {
			t.Fatalf("Parse(%q) returned error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Admin", "owner", "editor"} {
		if _, err := Parse(invalid); err == nil {
			t.Fatalf("Parse(%q) accepted an invalid role", invalid)
		}
	}
}

func TestCanRevoke(t *testing.T) {
	cases := []struct {
		name   string
		owner  string
		target string
		actor  string
		allow  bool
	}{
		{name: "owner revokes self", owner: "alice", target: "alice", actor: "alice", allow: true},
		{name: "admin revokes owner", owner: "alice", target: "alice", actor: "bob", allow: false},
		{name: "admin revokes non-owner", owner: "alice", target: "carol", actor: "bob", allow: true},
		{name: "non-owner revokes self", owner: "alice", target: "bob", actor: "bob", allow: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanRevoke(tc.owner, tc.target, tc.actor); got != tc.allow {
				t.Fatalf("CanRevoke(%q, %q, %q) = %v, want %v", tc.owner, tc.target, tc.actor, got, tc.allow)
			}
		})
	}
}
