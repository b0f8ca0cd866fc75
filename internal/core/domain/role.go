package domain

import "fmt"

// Role is the closed set of authorization tiers an identity can hold.
type Role uint8

const (
	// RoleUser is the zero value so an unset role is the least privileged one.
	RoleUser Role = iota
	RoleGuide
	RoleLeadGuide
	RoleAdmin
)

// Roles lists every role in ascending privilege order.
var Roles = []Role{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin}

var roleNames = [...]string{
	RoleUser:      "user",
	RoleGuide:     "guide",
	RoleLeadGuide: "lead-guide",
	RoleAdmin:     "admin",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return int(r) < len(roleNames)
}

// ParseRole converts the stored/wire name of a role back into a Role.
func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), nil
		}
	}
	return RoleUser, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// RoleSet is a bitmask of roles allowed to perform an operation.
type RoleSet uint8

// NewRoleSet builds the set containing exactly the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		if r.Valid() {
			s |= 1 << r
		}
	}
	return s
}

// Contains reports whether r is a member of s.
func (s RoleSet) Contains(r Role) bool {
	return r.Valid() && s&(1<<r) != 0
}

// Roles returns the members of s in ascending privilege order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(Roles))
	for _, r := range Roles {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Authorize is the role gate for protected operations: it is true iff the
// identity's role is in allowed. It must only be called after the identity
// has been resolved by the Gate; a nil identity is never authorized.
func Authorize(identity *Identity, allowed RoleSet) bool {
	if identity == nil {
		return false
	}
	return allowed.Contains(identity.Role)
}
