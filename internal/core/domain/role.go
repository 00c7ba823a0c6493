package domain

import "strings"

// Role is the privilege level carried by an identity and its session.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// roleRank orders roles by privilege; admin dominates user.
var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// IsAtLeast reports whether r grants at least the privileges of min.
func (r Role) IsAtLeast(min Role) bool {
	cur, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[min]
	if !ok {
		return false
	}
	return cur >= want
}

// ParseRole parses a role string. Unknown values report ok=false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.IsValid()
}
