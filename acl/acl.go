// Package acl implements the per-casefile access-control policy as pure
// functions, so it can be exercised without any storage in place.
package acl

import "fmt"

// Role is a per-casefile role stored inline in the casefile's ACL map.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWriter Role = "writer"
	RoleReader Role = "reader"
)

// GlobalAdmin is the role in the casefile-independent user record that
// bypasses every per-casefile check.
const GlobalAdmin = "admin"

// Rank orders roles so that a higher role satisfies a lower requirement.
// An empty or unknown role ranks 0 and never satisfies anything.
func Rank(r Role) int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleWriter:
		return 2
	case RoleReader:
		return 1
	default:
		return 0
	}
}

// Parse validates a role string supplied by a caller.
func Parse(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleWriter, RoleReader:
		return Role(s), nil
	default:
		return "", fmt.Errorf("invalid role %q: must be one of admin, writer, reader", s)
	}
}

// Authorize reports whether an actor may perform an operation that requires
// at least the given role. globalRole is the actor's role in the user
// system; roleInACL is the actor's entry in the target casefile's ACL, empty
// when absent. A global admin passes regardless of the ACL.
func Authorize(globalRole string, roleInACL Role, required Role) bool {
	if globalRole == GlobalAdmin {
		return true
	}
	return Rank(roleInACL) >= Rank(required)
}

// CanRevoke enforces the owner rule: the owner's ACL entry may only be
// removed by the owner themselves. Everyone else's entries carry no such
// protection.
func CanRevoke(ownerID, target, actor string) bool {
	if target == ownerID {
		return actor == ownerID
	}
	return true
}
