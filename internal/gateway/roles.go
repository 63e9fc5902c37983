package gateway

import "strings"

// Role is the privilege level carried in access tokens. Roles form a
// total order: a higher level supersedes all capabilities of lower ones.
type Role string

const (
	RoleGuest  Role = "guest"
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

var roleLevels = map[Role]int{
	RoleGuest:  0,
	RoleUser:   1,
	RoleEditor: 2,
	RoleAdmin:  3,
}

// Level returns the role's privilege level. An unrecognized role maps to
// guest level, so a forged or stale role string never grants access.
func (r Role) Level() int {
	return roleLevels[r]
}

// ParseRole normalizes a role string from a token claim. Anything outside
// the known enumeration degrades to guest.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleLevels[r]; ok {
		return r
	}
	return RoleGuest
}

// Authorize reports whether have satisfies need in the role hierarchy.
func Authorize(have, need Role) bool {
	return have.Level() >= need.Level()
}

// LandingPath maps a role to its post-login destination. Used both for
// the already-authenticated redirect away from the login screen and for
// the insufficient-permission redirect.
func LandingPath(r Role) string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleEditor:
		return "/editor/dashboard"
	case RoleUser:
		return "/dashboard"
	default:
		return "/"
	}
}
