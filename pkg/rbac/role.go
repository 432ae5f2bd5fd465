package rbac

import "fmt"

// Role is one of the closed set of membership roles. The set is fixed;
// there are no dynamic roles.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// roleLevels defines the total order OWNER > ADMIN > MEMBER. An unknown
// role has no level and never compares equal to any valid role.
var roleLevels = map[Role]int{
	RoleMember: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// ParseRole converts a stored string into a Role, failing on anything
// outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the role's position in the total order, higher meaning
// more privileged. Zero for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// Meets reports whether the role satisfies the required minimum role under
// the fixed total order. Unknown roles on either side never satisfy
// anything.
func (r Role) Meets(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r.Level() >= required.Level()
}

func (r Role) String() string { return string(r) }
